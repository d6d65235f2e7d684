package config

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath      = "data/gamevault.db"
	defaultBatchSize   = 20
	defaultRateLimitMS = 500
)

// Config holds application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" toml:"paths"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Enrich  EnrichConfig  `yaml:"enrich" toml:"enrich"`
	Catalog CatalogConfig `yaml:"catalog" toml:"catalog"`
	IGDB    IGDBConfig    `yaml:"igdb" toml:"igdb"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Tracing TracingConfig `yaml:"tracing" toml:"tracing"`
}

// PathsConfig locates the game library and the database.
type PathsConfig struct {
	GameLibrary string `yaml:"game_library" toml:"game_library"`
	Database    string `yaml:"database" toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	BindAddress string `yaml:"bind_address" toml:"bind_address"`
	Port        int    `yaml:"port" toml:"port"`
	APIKey      string `yaml:"api_key" toml:"api_key"`
}

// EnrichConfig bounds a single enrichment run.
type EnrichConfig struct {
	BatchSize          int `yaml:"batch_size" toml:"batch_size"`
	RateLimitMS        int `yaml:"rate_limit_ms" toml:"rate_limit_ms"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs" toml:"request_timeout_secs"`
	ImageTimeoutSecs   int `yaml:"image_timeout_secs" toml:"image_timeout_secs"`
}

// CatalogConfig points at the remote catalog endpoints.
type CatalogConfig struct {
	StoreURL  string `yaml:"store_url" toml:"store_url"`
	SearchURL string `yaml:"search_url" toml:"search_url"`
}

// IGDBConfig holds optional Twitch credentials for IGDB cross-referencing.
type IGDBConfig struct {
	ClientID     string `yaml:"client_id" toml:"client_id"`
	ClientSecret string `yaml:"client_secret" toml:"client_secret"`
}

// LoggingConfig mirrors logging.Config for file decoding.
type LoggingConfig struct {
	Format string `yaml:"format" toml:"format"`
	Level  string `yaml:"level" toml:"level"`
}

// TracingConfig controls OTLP span export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" toml:"enabled"`
	Endpoint    string  `yaml:"endpoint" toml:"endpoint"`
	Insecure    bool    `yaml:"insecure" toml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" toml:"sample_ratio"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			GameLibrary: ".",
			Database:    defaultDBPath,
		},
		Server: ServerConfig{
			BindAddress: "127.0.0.1",
			Port:        3000,
		},
		Enrich: EnrichConfig{
			BatchSize:          defaultBatchSize,
			RateLimitMS:        defaultRateLimitMS,
			RequestTimeoutSecs: 10,
			ImageTimeoutSecs:   30,
		},
		Catalog: CatalogConfig{
			StoreURL:  "https://store.steampowered.com/api",
			SearchURL: "https://steamcommunity.com/actions/SearchApps",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gamevault.yaml",
		".gamevault.yml",
		"config.toml",
	}

	// config.toml next to the executable
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "config.toml"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamevault", "config.yaml"),
			filepath.Join(home, ".config", "gamevault", "config.toml"),
			filepath.Join(home, ".gamevault.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEVAULT_CONFIG > search paths > defaults, then env overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEVAULT_CONFIG"); envPath != "" {
		if err := cfg.LoadFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.LoadFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadPath loads the file at path over the defaults and applies env
// overrides. An empty path falls back to Load.
func LoadPath(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFile merges the file at path into c. The decoder is picked by extension.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dbPath := os.Getenv("GAMEVAULT_DB"); dbPath != "" {
		c.Paths.Database = dbPath
	}
	if games := os.Getenv("GAMES_PATH"); games != "" {
		c.Paths.GameLibrary = games
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		c.Server.BindAddress = host
	}
	if key := os.Getenv("API_KEY"); key != "" {
		c.Server.APIKey = key
	}
	if id := os.Getenv("IGDB_CLIENT_ID"); id != "" {
		c.IGDB.ClientID = id
	}
	if secret := os.Getenv("IGDB_CLIENT_SECRET"); secret != "" {
		c.IGDB.ClientSecret = secret
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		c.Tracing.Endpoint = endpoint
		c.Tracing.Enabled = true
	}
}

// GetDBPath returns the database path, applying defaults.
func (c *Config) GetDBPath() string {
	if c.Paths.Database != "" {
		return c.Paths.Database
	}
	return defaultDBPath
}

// GetLibraryPath returns the game library root.
func (c *Config) GetLibraryPath() string {
	if c.Paths.GameLibrary != "" {
		return c.Paths.GameLibrary
	}
	return "."
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	port := c.Server.Port
	if port <= 0 {
		port = 3000
	}
	return net.JoinHostPort(c.Server.BindAddress, strconv.Itoa(port))
}

// BatchSize returns the per-run enrichment cap.
func (c *Config) BatchSize() int {
	if c.Enrich.BatchSize > 0 {
		return c.Enrich.BatchSize
	}
	return defaultBatchSize
}

// RateLimit returns the delay inserted between catalog calls.
// A negative value disables the delay (tests only).
func (c *Config) RateLimit() time.Duration {
	if c.Enrich.RateLimitMS < 0 {
		return 0
	}
	if c.Enrich.RateLimitMS == 0 {
		return defaultRateLimitMS * time.Millisecond
	}
	return time.Duration(c.Enrich.RateLimitMS) * time.Millisecond
}

// RequestTimeout returns the per-call catalog timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Enrich.RequestTimeoutSecs > 0 {
		return time.Duration(c.Enrich.RequestTimeoutSecs) * time.Second
	}
	return 10 * time.Second
}

// ImageTimeout returns the per-image download timeout.
func (c *Config) ImageTimeout() time.Duration {
	if c.Enrich.ImageTimeoutSecs > 0 {
		return time.Duration(c.Enrich.ImageTimeoutSecs) * time.Second
	}
	return 30 * time.Second
}

// IGDBEnabled reports whether IGDB credentials are present.
func (c *Config) IGDBEnabled() bool {
	return c.IGDB.ClientID != "" && c.IGDB.ClientSecret != ""
}
