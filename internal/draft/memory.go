package draft

import (
	"github.com/doctorazi/blogdesk/internal/cache"
	"github.com/google/uuid"
)

type MemorySessions struct {
	sessions *cache.Cache[SessionID, *MemoryBackend]
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: cache.NewCache[SessionID, *MemoryBackend]()}
}

func (m *MemorySessions) Create() (SessionID, error) {
	id := SessionID(uuid.New().String())
	m.sessions.Set(id, NewMemoryBackend())
	return id, nil
}

func (m *MemorySessions) Open(id SessionID) (Backend, error) {
	if b, ok := m.sessions.Get(id); ok {
		return b, nil
	}
	return nil, ErrSessionNotFound
}

func (m *MemorySessions) Drop(id SessionID) error {
	m.sessions.Delete(id)
	return nil
}

// MemoryBackend keeps one session's fields in process memory.
type MemoryBackend struct {
	fields *cache.Cache[string, string]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{fields: cache.NewCache[string, string]()}
}

func (b *MemoryBackend) Read(keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := b.fields.Get(k); ok {
			out[k] = v
		}
	}
	return out, nil
}

func (b *MemoryBackend) Write(values map[string]string) error {
	for k, v := range values {
		b.fields.Set(k, v)
	}
	return nil
}

func (b *MemoryBackend) Remove(keys []string) error {
	for _, k := range keys {
		b.fields.Delete(k)
	}
	return nil
}
