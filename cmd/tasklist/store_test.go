package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/backend/sqlite"
	"tasklist/internal/config"
)

func TestOpenStore_SQLite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg, err := config.New(dir)
	require.NoError(t, err)

	st, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer st.Close()

	assert.IsType(t, &sqlite.Store{}, st)
	assert.FileExists(t, cfg.DatabasePath())
}

func TestOpenStore_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "unknown backend", cfg: config.Config{Backend: "redis"}},
		{name: "bad mysql dsn", cfg: config.Config{Backend: config.BackendMySQL, MySQLDSN: "::not a dsn"}},
		{name: "google without credentials", cfg: config.Config{Backend: config.BackendGoogleTasks, Dir: t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := openStore(context.Background(), &tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, st)
		})
	}
}
