package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/cache"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/google/uuid"
)

// MemoryRepository is an in-process PostRepository and Directory. It enforces
// url uniqueness the same way the backend does.
type MemoryRepository struct {
	// mu serializes writes so url uniqueness checks and inserts are atomic.
	mu    sync.Mutex
	posts *cache.Cache[model.PostID, *model.Post]

	authors     *cache.Cache[model.AuthorID, *model.Author]
	translators *cache.Cache[model.TranslatorID, *model.Translator]
	names       *cache.Cache[model.UserID, string]

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:       cache.NewCache[model.PostID, *model.Post](),
		authors:     cache.NewCache[model.AuthorID, *model.Author](),
		translators: cache.NewCache[model.TranslatorID, *model.Translator](),
		names:       cache.NewCache[model.UserID, string](),
		now:         time.Now,
	}
}

func (m *MemoryRepository) AddAuthor(a model.Author) {
	m.authors.Set(a.AuthorID, &a)
}

func (m *MemoryRepository) AddTranslator(t model.Translator) {
	m.translators.Set(t.TranslatorID, &t)
}

func (m *MemoryRepository) SetFullName(userID model.UserID, name string) {
	m.names.Set(userID, name)
}

func notFound(what string) error {
	return apperror.New(apperror.NotFound, what+" not found", nil)
}

func (m *MemoryRepository) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	p, ok := m.posts.Get(id)
	if !ok {
		return nil, notFound("post")
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) ListPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	var out []model.Post
	for _, p := range m.posts.Values() {
		if p.IsRejected == filter.Rejected {
			out = append(out, *p)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Post) int {
		return -a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) urlTaken(url string, except model.PostID) bool {
	for _, p := range m.posts.Values() {
		if p.URL == url && p.ID != except {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) CreatePost(ctx context.Context, in model.PostInput) (model.PostID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.urlTaken(in.URL, "") {
		return "", apperror.New(apperror.Conflict, "url is already in use", nil)
	}

	p := &model.Post{ID: model.PostID(uuid.New().String()), CreatedAt: m.now().UTC()}
	in.Apply(p)
	m.posts.Set(p.ID, p)
	return p.ID, nil
}

func (m *MemoryRepository) UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts.Get(id)
	if !ok {
		return notFound("post")
	}
	if m.urlTaken(in.URL, id) {
		return apperror.New(apperror.Conflict, "url is already in use", nil)
	}

	cp := *p
	// authorship is immutable after creation
	in.AuthorID = p.AuthorID
	in.Apply(&cp)
	m.posts.Set(id, &cp)
	return nil
}

func (m *MemoryRepository) DeletePost(ctx context.Context, id model.PostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts.Get(id); !ok {
		return notFound("post")
	}
	m.posts.Delete(id)
	return nil
}

func (m *MemoryRepository) RejectPost(ctx context.Context, id model.PostID, rejectedBy model.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts.Get(id)
	if !ok {
		return notFound("post")
	}
	cp := *p
	cp.IsRejected = true
	cp.RejectedBy = rejectedBy
	m.posts.Set(id, &cp)
	return nil
}

func (m *MemoryRepository) AddTranslation(ctx context.Context, id model.PostID, in model.TranslationInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts.Get(id)
	if !ok {
		return notFound("post")
	}
	cp := *p
	in.Apply(&cp)
	m.posts.Set(id, &cp)
	return nil
}

func (m *MemoryRepository) URLExists(ctx context.Context, url string) (bool, error) {
	return m.urlTaken(url, ""), nil
}

func (m *MemoryRepository) GetAuthor(ctx context.Context, id model.AuthorID) (*model.Author, error) {
	if a, ok := m.authors.Get(id); ok {
		return a, nil
	}
	return nil, notFound("author")
}

func (m *MemoryRepository) GetAuthorByUser(ctx context.Context, userID model.UserID) (*model.Author, error) {
	for _, a := range m.authors.Values() {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, notFound("author")
}

func (m *MemoryRepository) GetTranslator(ctx context.Context, id model.TranslatorID) (*model.Translator, error) {
	if t, ok := m.translators.Get(id); ok {
		return t, nil
	}
	return nil, notFound("translator")
}

func (m *MemoryRepository) GetTranslatorByUser(ctx context.Context, userID model.UserID) (*model.Translator, error) {
	for _, t := range m.translators.Values() {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, notFound("translator")
}

func (m *MemoryRepository) FullName(ctx context.Context, userID model.UserID) (string, error) {
	if n, ok := m.names.Get(userID); ok {
		return n, nil
	}
	return "", notFound("user")
}
