package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/stdlib"

	pkgdb "library-catalog/pkg/database"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Options selects and configures the storage backend.
type Options struct {
	Driver     string
	SQLitePath string
	Postgres   *DBConfig
}

// Store is the handle repositories work against. Both backends are exposed
// as *sql.DB so one squirrel-built query set serves either dialect.
type Store struct {
	DB      *sql.DB
	Dialect string

	pg *PostgresDB
}

// Open connects to the configured backend. The returned Store must be
// closed by the caller.
func Open(ctx context.Context, opts *Options) (*Store, error) {
	switch opts.Driver {
	case DialectPostgres:
		pg := NewPostgresDB(opts.Postgres)
		if err := pg.Connect(ctx); err != nil {
			return nil, err
		}
		return &Store{DB: stdlib.OpenDBFromPool(pg.Pool), Dialect: DialectPostgres, pg: pg}, nil
	case DialectSQLite:
		db, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{DB: db, Dialect: DialectSQLite}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// NewStore wraps an already opened database.
func NewStore(db *sql.DB, dialect string) *Store {
	return &Store{DB: db, Dialect: dialect}
}

// Builder returns a squirrel statement builder using the dialect's
// placeholder format.
func (s *Store) Builder() sq.StatementBuilderType {
	if s.Dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Runner returns the transaction carried by ctx, or the plain DB.
func (s *Store) Runner(ctx context.Context) pkgdb.DBTX {
	return pkgdb.Runner(ctx, s.DB)
}

// WithinTransaction runs fn in a transaction, joining one already in ctx.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return pkgdb.WithTransaction(ctx, s.DB, fn)
}

func (s *Store) Exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.Runner(ctx).ExecContext(ctx, query, args...)
}

func (s *Store) Query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.Runner(ctx).QueryContext(ctx, query, args...)
}

func (s *Store) QueryRow(ctx context.Context, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.Runner(ctx).QueryRowContext(ctx, query, args...), nil
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pg != nil {
		return s.pg.Ping(ctx)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// PoolStats returns pgx pool counters, or nil for SQLite.
func (s *Store) PoolStats() *PoolStats {
	if s.pg == nil {
		return nil
	}
	stats, err := s.pg.Stats()
	if err != nil {
		return nil
	}
	return stats
}

// Close releases the database handle and, for Postgres, the pool behind it.
func (s *Store) Close() error {
	err := s.DB.Close()
	if s.pg != nil {
		s.pg.Close()
	}
	return err
}
