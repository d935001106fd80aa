// Package draft persists in-progress post and translation edits per editing session.
package draft

import (
	"errors"

	"github.com/rs/zerolog"
)

var draftLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	draftLogger = l
}

// Fields is a partial draft: field name to raw string value.
type Fields map[string]string

type SessionID string

var ErrSessionNotFound = errors.New("draft session not found")

// Backend is the key-value storage of a single session.
type Backend interface {
	// Read returns the subset of keys that are present.
	Read(keys []string) (map[string]string, error)
	Write(values map[string]string) error
	Remove(keys []string) error
}

// Sessions hands out isolated backends keyed by session id.
type Sessions interface {
	Create() (SessionID, error)
	Open(id SessionID) (Backend, error)
	Drop(id SessionID) error
}

// Store is a namespaced view over a Backend restricted to a fixed key set.
type Store struct {
	backend Backend
	keys    []string
	// legacy maps a current key to an older key still honoured on load.
	legacy map[string]string
	// content lists the keys holding user-entered text.
	content []string
}

func newStore(b Backend, keys []string, legacy map[string]string, content []string) *Store {
	return &Store{backend: b, keys: keys, legacy: legacy, content: content}
}

func (s *Store) known(key string) bool {
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Save writes every known field in f, including empty values. Unknown keys are ignored.
func (s *Store) Save(f Fields) error {
	values := make(map[string]string, len(f))
	for k, v := range f {
		if !s.known(k) {
			draftLogger.Debug().Str("field", k).Msg("Ignoring unknown draft field")
			continue
		}
		values[k] = v
	}
	if len(values) == 0 {
		return nil
	}
	return s.backend.Write(values)
}

// Load returns the persisted fields. Backend failures are logged and yield an empty draft.
func (s *Store) Load() Fields {
	keys := append([]string{}, s.keys...)
	for _, old := range s.legacy {
		keys = append(keys, old)
	}

	values, err := s.backend.Read(keys)
	if err != nil {
		draftLogger.Error().Err(err).Msg("Failed to load draft, starting empty")
		return Fields{}
	}

	out := make(Fields, len(s.keys))
	for _, k := range s.keys {
		if v, ok := values[k]; ok {
			out[k] = v
		}
	}
	for cur, old := range s.legacy {
		if _, ok := out[cur]; ok {
			continue
		}
		if v, ok := values[old]; ok {
			out[cur] = v
		}
	}
	return out
}

// Clear removes every field of this store, including legacy keys.
func (s *Store) Clear() error {
	keys := append([]string{}, s.keys...)
	for _, old := range s.legacy {
		keys = append(keys, old)
	}
	return s.backend.Remove(keys)
}

// HasPending reports whether any user-entered field holds a non-empty value.
// Markers such as the post id and edit flag do not count.
func (s *Store) HasPending() bool {
	f := s.Load()
	for _, k := range s.content {
		if f[k] != "" {
			return true
		}
	}
	return false
}
