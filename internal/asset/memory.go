package asset

import (
	"context"
	"fmt"
	"io"

	"github.com/doctorazi/blogdesk/internal/cache"
	"github.com/doctorazi/blogdesk/internal/model"
)

// MemoryBackend keeps objects in process memory, keyed by ObjectKey.
type MemoryBackend struct {
	objects *cache.Cache[string, []byte]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{objects: cache.NewCache[string, []byte]()}
}

func (m *MemoryBackend) Upload(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error) {
	data, err := io.ReadAll(f.Body)
	if err != nil {
		return "", err
	}
	m.objects.Set(ObjectKey(authorID, postID, f.Name), data)
	return f.Name, nil
}

func (m *MemoryBackend) Delete(ctx context.Context, authorID model.AuthorID, postID model.PostID, filename string) error {
	key := ObjectKey(authorID, postID, filename)
	if _, ok := m.objects.Get(key); !ok {
		return fmt.Errorf("object %s not found", key)
	}
	m.objects.Delete(key)
	return nil
}

func (m *MemoryBackend) Get(key string) ([]byte, bool) {
	return m.objects.Get(key)
}

func (m *MemoryBackend) Len() int {
	return m.objects.Len()
}
