// Package db opens the SQL database backing the draft store.
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type Db interface {
	InitDB() error

	Get() *sqlx.DB
	Close() error

	HealthCheck(ctx context.Context) error
}

var dbLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}

// Open returns an uninitialized Db for the given driver.
func Open(driver, dsn string) (Db, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn), nil
	case "postgres":
		return NewPostgres(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type conn struct {
	db *sqlx.DB
}

func (c *conn) Get() *sqlx.DB {
	return c.db
}

func (c *conn) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *conn) HealthCheck(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

func (c *conn) migrate(driver string, statements []string) error {
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	dbLogger.Info().Str("driver", driver).Int("statements", len(statements)).Msg("Database initialized")
	return nil
}
