package db

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS draft_sessions (
    id TEXT PRIMARY KEY,
    updated_at DATETIME NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS draft_fields (
    session_id TEXT NOT NULL REFERENCES draft_sessions(id) ON DELETE CASCADE,
    field TEXT NOT NULL,
    value BLOB,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (session_id, field)
)`,
}

type SQLite struct {
	conn
	dsn string
}

func NewSQLite(dsn string) *SQLite {
	if dsn == "" {
		dsn = "./drafts.db"
	}
	return &SQLite{dsn: dsn}
}

func (s *SQLite) InitDB() error {
	var err error
	s.db, err = sqlx.Open("sqlite3", s.dsn)
	if err != nil {
		return err
	}
	// sqlite serializes writers; one connection also keeps :memory: databases shared.
	s.db.SetMaxOpenConns(1)

	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return err
	}
	return s.migrate("sqlite", sqliteSchema)
}
