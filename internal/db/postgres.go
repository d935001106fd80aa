package db

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS draft_sessions (
    id TEXT PRIMARY KEY,
    updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS draft_fields (
    session_id TEXT NOT NULL REFERENCES draft_sessions(id) ON DELETE CASCADE,
    field TEXT NOT NULL,
    value BYTEA,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (session_id, field)
)`,
}

type Postgres struct {
	conn
	dsn string
}

func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn}
}

func (p *Postgres) InitDB() error {
	var err error
	p.db, err = sqlx.Connect("postgres", p.dsn)
	if err != nil {
		return err
	}

	p.db.SetMaxOpenConns(25)
	p.db.SetMaxIdleConns(5)
	p.db.SetConnMaxLifetime(30 * time.Minute)

	return p.migrate("postgres", postgresSchema)
}
