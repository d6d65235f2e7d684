package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "data/gamevault.db", cfg.Paths.Database)
	assert.Equal(t, ".", cfg.Paths.GameLibrary)
	assert.Equal(t, 20, cfg.Enrich.BatchSize)
	assert.Equal(t, 500, cfg.Enrich.RateLimitMS)
	assert.Equal(t, "127.0.0.1", cfg.Server.BindAddress)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.IGDBEnabled())
}

func TestConfig_GetDBPath(t *testing.T) {
	tests := []struct {
		name     string
		dbPath   string
		expected string
	}{
		{"returns configured path", "custom.db", "custom.db"},
		{"returns default when empty", "", "data/gamevault.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Paths: PathsConfig{Database: tt.dbPath}}
			assert.Equal(t, tt.expected, cfg.GetDBPath())
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 30*time.Second, cfg.ImageTimeout())
	assert.Equal(t, 20, cfg.BatchSize())

	cfg.Enrich = EnrichConfig{BatchSize: 5, RateLimitMS: -1, RequestTimeoutSecs: 2, ImageTimeoutSecs: 3}
	assert.Equal(t, time.Duration(0), cfg.RateLimit())
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 3*time.Second, cfg.ImageTimeout())
	assert.Equal(t, 5, cfg.BatchSize())
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{BindAddress: "0.0.0.0", Port: 8080}}
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())

	cfg.Server.Port = 0
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestConfig_LoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
paths:
  game_library: /games
  database: /data/vault.db
enrich:
  batch_size: 5
  rate_limit_ms: 250
logging:
  format: json
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0644) // #nosec G306
	require.NoError(t, err)

	t.Setenv("GAMEVAULT_CONFIG", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/games", cfg.GetLibraryPath())
	assert.Equal(t, "/data/vault.db", cfg.GetDBPath())
	assert.Equal(t, 5, cfg.BatchSize())
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimit())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestConfig_LoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[paths]
game_library = "D:/Games"

[server]
port = 4000
auto_open_browser = false

[igdb]
client_id = "id"
client_secret = "secret"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644)) // #nosec G306

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(configPath))

	assert.Equal(t, "D:/Games", cfg.Paths.GameLibrary)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.True(t, cfg.IGDBEnabled())
	assert.Equal(t, "data/gamevault.db", cfg.Paths.Database)
}

func TestConfig_LoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("paths: [unclosed"), 0644)) // #nosec G306

	t.Setenv("GAMEVAULT_CONFIG", configPath)

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("paths:\n  database: file.db\n"), 0644)) // #nosec G306

	t.Setenv("GAMEVAULT_CONFIG", configPath)
	t.Setenv("GAMEVAULT_DB", "env.db")
	t.Setenv("GAMES_PATH", "/mnt/games")
	t.Setenv("PORT", "9000")
	t.Setenv("API_KEY", "secret")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.GetDBPath())
	assert.Equal(t, "/mnt/games", cfg.GetLibraryPath())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otel:4317", cfg.Tracing.Endpoint)
}

func TestConfig_Tracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := DefaultConfig()
	assert.False(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.Tracing.Insecure)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[tracing]\nenabled = true\nendpoint = \"collector:4317\"\ninsecure = false\nsample_ratio = 0.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadPath(path)
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.False(t, cfg.Tracing.Insecure)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamevault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  game_library: /srv/games\n"), 0o644))
	t.Setenv("GAMEVAULT_DB", "/tmp/override.db")

	cfg, err := LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/games", cfg.GetLibraryPath())
	assert.Equal(t, "/tmp/override.db", cfg.GetDBPath())

	_, err = LoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
