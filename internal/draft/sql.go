package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doctorazi/blogdesk/internal/db"
	"github.com/doctorazi/blogdesk/internal/util/compression"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	upsertSessionQuery = `INSERT INTO draft_sessions (id, updated_at) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at`
	upsertFieldQuery = `INSERT INTO draft_fields (session_id, field, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (session_id, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	sessionExistsQuery = `SELECT COUNT(*) FROM draft_sessions WHERE id = ?`
	selectFieldsQuery  = `SELECT field, value FROM draft_fields WHERE session_id = ? AND field IN (?)`
	deleteFieldsQuery  = `DELETE FROM draft_fields WHERE session_id = ? AND field IN (?)`
	deleteSessionQuery = `DELETE FROM draft_sessions WHERE id = ?`
	pruneFieldsQuery   = `DELETE FROM draft_fields WHERE session_id IN (SELECT id FROM draft_sessions WHERE updated_at < ?)`
	pruneSessionsQuery = `DELETE FROM draft_sessions WHERE updated_at < ?`
)

// SQLSessions stores drafts in the draft_sessions and draft_fields tables.
// Field values are compressed with the configured codec.
type SQLSessions struct {
	db    *sqlx.DB
	codec compression.Compressor
	now   func() time.Time
}

func NewSQLSessions(d db.Db, codec compression.Compressor) *SQLSessions {
	return newSQLSessions(d.Get(), codec)
}

func newSQLSessions(x *sqlx.DB, codec compression.Compressor) *SQLSessions {
	if codec == nil {
		codec = compression.NoneCompressor{}
	}
	return &SQLSessions{
		db:    x,
		codec: codec,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLSessions) Create() (SessionID, error) {
	id := SessionID(uuid.New().String())
	if _, err := s.db.Exec(s.db.Rebind(upsertSessionQuery), string(id), s.now()); err != nil {
		return "", fmt.Errorf("failed to create draft session: %w", err)
	}
	return id, nil
}

func (s *SQLSessions) Open(id SessionID) (Backend, error) {
	var n int
	if err := s.db.Get(&n, s.db.Rebind(sessionExistsQuery), string(id)); err != nil {
		return nil, fmt.Errorf("failed to open draft session: %w", err)
	}
	if n == 0 {
		return nil, ErrSessionNotFound
	}
	return &sqlBackend{sessions: s, id: id}, nil
}

func (s *SQLSessions) Drop(id SessionID) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(tx.Rebind(`DELETE FROM draft_fields WHERE session_id = ?`), string(id)); err != nil {
		return err
	}
	if _, err := tx.Exec(tx.Rebind(deleteSessionQuery), string(id)); err != nil {
		return err
	}
	return tx.Commit()
}

// Prune removes sessions untouched for longer than maxAge and returns how many were removed.
func (s *SQLSessions) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(pruneFieldsQuery), cutoff); err != nil {
		return 0, fmt.Errorf("failed to prune draft fields: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(pruneSessionsQuery), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune draft sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	draftLogger.Info().Int64("sessions", n).Dur("max_age", maxAge).Msg("Pruned stale drafts")
	return n, nil
}

type sqlBackend struct {
	sessions *SQLSessions
	id       SessionID
}

type fieldRow struct {
	Field string `db:"field"`
	Value []byte `db:"value"`
}

func (b *sqlBackend) Read(keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(selectFieldsQuery, string(b.id), keys)
	if err != nil {
		return nil, err
	}

	var rows []fieldRow
	x := b.sessions.db
	if err := x.Select(&rows, x.Rebind(query), args...); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read draft fields: %w", err)
	}

	for _, r := range rows {
		if len(r.Value) == 0 {
			out[r.Field] = ""
			continue
		}
		v, err := b.sessions.codec.Decompress(r.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode draft field %s: %w", r.Field, err)
		}
		out[r.Field] = string(v)
	}
	return out, nil
}

func (b *sqlBackend) Write(values map[string]string) error {
	x := b.sessions.db
	now := b.sessions.now()

	tx, err := x.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(tx.Rebind(upsertSessionQuery), string(b.id), now); err != nil {
		return fmt.Errorf("failed to touch draft session: %w", err)
	}

	stmt, err := tx.Preparex(tx.Rebind(upsertFieldQuery))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range values {
		packed := []byte{}
		if v != "" {
			if packed, err = b.sessions.codec.Compress([]byte(v)); err != nil {
				return fmt.Errorf("failed to encode draft field %s: %w", k, err)
			}
		}
		if _, err := stmt.Exec(string(b.id), k, packed, now); err != nil {
			return fmt.Errorf("failed to write draft field %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (b *sqlBackend) Remove(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(deleteFieldsQuery, string(b.id), keys)
	if err != nil {
		return err
	}
	x := b.sessions.db
	if _, err := x.Exec(x.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to clear draft fields: %w", err)
	}
	return nil
}
