package main

import (
	"fmt"

	"github.com/RiosenBeq/NASA/internal/config"
	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/store"
	"github.com/RiosenBeq/NASA/internal/store/postgres"
)

// openStore connects to the Postgres store configured via DATABASE_URL.
// Commands that write to the corpus bypass the HTTP API and talk to the
// database directly, so they require a configured store.
func openStore() (store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for this command")
	}
	st, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// openPublisher creates a NATS publisher when configured, or a no-op one.
func openPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	return events.NewNATSPublisher(cfg.NATSURL)
}
