package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileSessions stores each session as a YAML document under dir.
type FileSessions struct {
	dir string
	mu  sync.Mutex
}

func NewFileSessions(dir string) (*FileSessions, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create draft directory: %w", err)
	}
	return &FileSessions{dir: dir}, nil
}

func (f *FileSessions) path(id SessionID) (string, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return "", fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return filepath.Join(f.dir, string(id)+".yaml"), nil
}

func (f *FileSessions) Create() (SessionID, error) {
	id := SessionID(uuid.New().String())
	b := &fileBackend{sessions: f, id: id}
	if err := b.save(map[string]string{}); err != nil {
		return "", err
	}
	return id, nil
}

func (f *FileSessions) Open(id SessionID) (Backend, error) {
	p, err := f.path(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	return &fileBackend{sessions: f, id: id}, nil
}

func (f *FileSessions) Drop(id SessionID) error {
	p, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type fileBackend struct {
	sessions *FileSessions
	id       SessionID
}

func (b *fileBackend) load() (map[string]string, error) {
	p, err := b.sessions.path(b.id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse draft %s: %w", b.id, err)
	}
	return values, nil
}

func (b *fileBackend) save(values map[string]string) error {
	p, err := b.sessions.path(b.id)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (b *fileBackend) Read(keys []string) (map[string]string, error) {
	b.sessions.mu.Lock()
	defer b.sessions.mu.Unlock()

	values, err := b.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (b *fileBackend) Write(values map[string]string) error {
	b.sessions.mu.Lock()
	defer b.sessions.mu.Unlock()

	current, err := b.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return b.save(current)
}

func (b *fileBackend) Remove(keys []string) error {
	b.sessions.mu.Lock()
	defer b.sessions.mu.Unlock()

	current, err := b.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	return b.save(current)
}
