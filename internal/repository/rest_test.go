package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mux      *http.ServeMux
	lastBody map[string]any
	cookie   string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *RESTRepository) {
	f := &fakeBackend{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			f.cookie = c.Value
		}
		f.lastBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&f.lastBody)
		}
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, NewRESTRepository(srv.URL+"/api", "session", 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestRESTGetPost(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such post"})
			return
		}
		writeJSON(w, http.StatusOK, model.Post{ID: "p1", AuthorID: "a1", Title: "Hello", ImageURL: "c.png"})
	})

	ctx := auth.ContextWithSession(context.Background(), "tok")
	p, err := repo.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, model.AuthorID("a1"), p.AuthorID)
	assert.Equal(t, "tok", f.cookie)

	_, err = repo.GetPost(ctx, "nope")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestRESTListPosts(t *testing.T) {
	f, repo := newFakeBackend(t)
	var gotRejected string
	f.mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		gotRejected = r.URL.Query().Get("rejected")
		writeJSON(w, http.StatusOK, []model.Post{{ID: "p1"}, {ID: "p2"}})
	})

	posts, err := repo.ListPosts(context.Background(), model.PostFilter{Rejected: true})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "true", gotRejected)
}

func TestRESTCreateAndUpdate(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"post_id": "new-id"})
	})
	f.mux.HandleFunc("PUT /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	id, err := repo.CreatePost(context.Background(), model.PostInput{Title: "T", URL: "t", ImageURL: "c.png"})
	require.NoError(t, err)
	assert.Equal(t, model.PostID("new-id"), id)
	assert.Equal(t, "c.png", f.lastBody["imageUrl"])

	require.NoError(t, repo.UpdatePost(context.Background(), id, model.PostInput{Title: "T2"}))
	assert.Equal(t, "T2", f.lastBody["title"])
}

func TestRESTCreateConflict(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "url already exists"})
	})

	_, err := repo.CreatePost(context.Background(), model.PostInput{URL: "dup"})
	assert.True(t, apperror.Is(err, apperror.Conflict))
	assert.Equal(t, "url already exists", apperror.Message(err))
}

func TestRESTCreateWithoutID(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{})
	})

	_, err := repo.CreatePost(context.Background(), model.PostInput{URL: "x"})
	assert.True(t, apperror.Is(err, apperror.Transport))
}

func TestRESTRejectAndTranslate(t *testing.T) {
	f, repo := newFakeBackend(t)
	var hits []string
	f.mux.HandleFunc("PUT /api/posts/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, "reject:"+r.PathValue("id"))
	})
	f.mux.HandleFunc("POST /api/posts/{id}/translation", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, "translate:"+r.PathValue("id"))
	})
	f.mux.HandleFunc("DELETE /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, "delete:"+r.PathValue("id"))
	})

	require.NoError(t, repo.RejectPost(context.Background(), "p1", "u2"))
	assert.Equal(t, true, f.lastBody["isRejected"])
	assert.Equal(t, "u2", f.lastBody["rejectedBy"])

	require.NoError(t, repo.AddTranslation(context.Background(), "p1", model.TranslationInput{TranslatedTitle: "ت", IsTranslated: true}))
	assert.Equal(t, true, f.lastBody["isTranslated"])

	require.NoError(t, repo.DeletePost(context.Background(), "p1"))
	assert.Equal(t, []string{"reject:p1", "translate:p1", "delete:p1"}, hits)
}

func TestRESTURLExists(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("GET /api/posts/url-exists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"exists": r.URL.Query().Get("url") == "taken"})
	})

	exists, err := repo.URLExists(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.URLExists(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRESTDirectory(t *testing.T) {
	f, repo := newFakeBackend(t)
	f.mux.HandleFunc("GET /api/authors/by-user/{user}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Author{AuthorID: "a1", UserID: model.UserID(r.PathValue("user"))})
	})
	f.mux.HandleFunc("GET /api/authors/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Author{AuthorID: model.AuthorID(r.PathValue("id")), UserID: "u1"})
	})
	f.mux.HandleFunc("GET /api/translators/by-user/{user}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, nil)
	})
	f.mux.HandleFunc("GET /api/translators/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Translator{TranslatorID: "t1", UserID: "u3"})
	})
	f.mux.HandleFunc("GET /api/users/{user}/full-name", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"fullName": "Dr. Azi"})
	})

	ctx := context.Background()
	a, err := repo.GetAuthorByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.AuthorID("a1"), a.AuthorID)

	a, err = repo.GetAuthor(ctx, "a9")
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u1"), a.UserID)

	_, err = repo.GetTranslatorByUser(ctx, "u1")
	assert.True(t, apperror.Is(err, apperror.NotFound))

	tr, err := repo.GetTranslator(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u3"), tr.UserID)

	name, err := repo.FullName(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Azi", name)
}

func TestRESTStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   apperror.Kind
	}{
		{http.StatusBadRequest, apperror.Validation},
		{http.StatusForbidden, apperror.Forbidden},
		{http.StatusConflict, apperror.Conflict},
		{http.StatusNotFound, apperror.NotFound},
		{http.StatusBadGateway, apperror.Transport},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			f, repo := newFakeBackend(t)
			f.mux.HandleFunc("DELETE /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			err := repo.DeletePost(context.Background(), "p1")
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestRESTUnreachable(t *testing.T) {
	repo := NewRESTRepository("http://127.0.0.1:1", "session", 500*time.Millisecond)
	_, err := repo.GetPost(context.Background(), "p1")
	assert.True(t, apperror.Is(err, apperror.Transport))
	assert.True(t, apperror.Retryable(err))
}
