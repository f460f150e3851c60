package main

import (
	"context"
	"fmt"

	"tasklist/internal/backend/googletasks"
	"tasklist/internal/backend/mysql"
	"tasklist/internal/backend/postgres"
	"tasklist/internal/backend/sqlite"
	"tasklist/internal/config"
	"tasklist/internal/store"
)

// openStore opens the backend named by cfg.Backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		st, err = unwrap(sqlite.Open(cfg.DatabasePath()))
	case config.BackendMySQL:
		st, err = unwrap(mysql.Open(ctx, cfg.MySQLDSN))
	case config.BackendPostgres:
		st, err = unwrap(postgres.Open(ctx, cfg.PostgresDSN))
	case config.BackendGoogleTasks:
		st, err = unwrap(googletasks.New(ctx, cfg))
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// unwrap keeps a failed constructor's typed nil out of the interface.
func unwrap[S store.Store](s S, err error) (store.Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
