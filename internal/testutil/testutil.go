// Package testutil builds throwaway SQLite stores and configs for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"library-catalog/internal/config"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/pkg/logger"
)

const JWTSecret = "test-secret"

// NewStore opens a migrated SQLite database in a temporary directory.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	logger.Init("test")

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	store := database.NewStore(db, database.DialectSQLite)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Config returns a configuration for in-process tests: SQLite, in-memory
// cache, staff mutation policy and no rate limiting.
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Library Catalog API",
			Environment: "test",
			Port:        "0",
			Version:     "test",
		},
		Database: &database.Options{Driver: database.DialectSQLite},
		JWT: config.JWTConfig{
			Secret:       JWTSecret,
			AccessExpiry: time.Hour,
		},
		Auth: config.AuthConfig{
			MutationPolicy:     "staff",
			LoginMaxAttempts:   3,
			LoginLockoutWindow: time.Minute,
		},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
			RPS:     10,
			Burst:   20,
		},
	}
}
