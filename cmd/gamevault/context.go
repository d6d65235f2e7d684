package main

import (
	"context"
	"fmt"

	"github.com/ryanm101/gamevault/internal/catalog"
	"github.com/ryanm101/gamevault/internal/config"
	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/enrich"
	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/tracing"
	"github.com/ryanm101/gamevault/internal/vault"
)

// appContext carries global flags and lazily opened resources shared by
// every subcommand.
type appContext struct {
	configPath string
	jsonOut    bool
	quiet      bool

	cfg      *config.Config
	db       *db.DB
	svc      *enrich.Service
	shutdown func(context.Context) error
}

func (a *appContext) setup(ctx context.Context) error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.LoadPath(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	shutdown, err := tracing.Setup(ctx, tracing.FromConfig(cfg.Tracing, appVersion))
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		return nil
	}
	a.shutdown = shutdown
	return nil
}

// service opens the database and builds the enrichment service on first use.
func (a *appContext) service(ctx context.Context) (*enrich.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if a.cfg == nil {
		if err := a.setup(ctx); err != nil {
			return nil, err
		}
	}

	d, err := db.Open(ctx, a.cfg.GetDBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = d

	client := catalog.NewSteamClient(
		catalog.WithStoreURL(a.cfg.Catalog.StoreURL),
		catalog.WithSearchURL(a.cfg.Catalog.SearchURL),
		catalog.WithTimeout(a.cfg.RequestTimeout()),
	)

	ecfg := enrich.Config{
		BatchSize: a.cfg.BatchSize(),
		Delay:     a.cfg.RateLimit(),
	}
	if a.cfg.IGDBEnabled() {
		linker, err := catalog.NewIGDBLinker(ctx, a.cfg.IGDB.ClientID, a.cfg.IGDB.ClientSecret, nil)
		if err != nil {
			logging.Warn("igdb linking disabled", "error", err)
		} else {
			ecfg.Linker = linker
		}
	}

	a.svc = enrich.NewService(d, client, vault.NewImageCache(nil, a.cfg.ImageTimeout()), ecfg)
	return a.svc, nil
}

func (a *appContext) close(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logging.Error("failed to close database", "error", err)
		}
		a.db = nil
		a.svc = nil
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
		a.shutdown = nil
	}
}
