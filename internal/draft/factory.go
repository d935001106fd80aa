package draft

import (
	"fmt"

	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/db"
	"github.com/doctorazi/blogdesk/internal/util/compression"
)

// NewSessions builds the session store selected by cfg.Driver. The returned
// close function releases the underlying database, if any.
func NewSessions(cfg config.DraftsConfig) (Sessions, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "memory":
		return NewMemorySessions(), noop, nil
	case "file":
		s, err := NewFileSessions(cfg.Path)
		return s, noop, err
	case "sqlite", "postgres":
		s, d, err := OpenSQLSessions(cfg)
		if err != nil {
			return nil, noop, err
		}
		return s, d.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown draft driver %q", cfg.Driver)
	}
}

// OpenSQLSessions connects to the draft database and applies the schema.
func OpenSQLSessions(cfg config.DraftsConfig) (*SQLSessions, db.Db, error) {
	codec, err := compression.ByName(cfg.Compression)
	if err != nil {
		return nil, nil, err
	}
	d, err := db.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := d.InitDB(); err != nil {
		return nil, nil, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
	}
	return NewSQLSessions(d, codec), d, nil
}
