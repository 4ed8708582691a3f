package database

import (
	"context"
	"embed"
	"fmt"
	"log"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the catalog tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	raw, err := schemaFS.ReadFile("schema/" + s.Dialect + ".sql")
	if err != nil {
		return fmt.Errorf("read %s schema: %w", s.Dialect, err)
	}

	return s.WithinTransaction(ctx, func(ctx context.Context) error {
		runner := s.Runner(ctx)
		for _, stmt := range strings.Split(string(raw), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := runner.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w\n%s", err, stmt)
			}
		}
		log.Printf("[DATABASE] %s schema is up to date", s.Dialect)
		return nil
	})
}
