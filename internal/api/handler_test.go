package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/repository"
	"github.com/doctorazi/blogdesk/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userHeader = "X-User-Id"

type testEnv struct {
	srv     *httptest.Server
	repo    *repository.MemoryRepository
	objects *asset.MemoryBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewMemoryRepository()
	repo.AddAuthor(model.Author{AuthorID: "a1", UserID: "u1"})
	repo.AddAuthor(model.Author{AuthorID: "a2", UserID: "u2"})
	repo.AddTranslator(model.Translator{TranslatorID: "t1", UserID: "u3"})

	objects := asset.NewMemoryBackend()
	mgr := workflow.NewManager(repo, repo, asset.NewReconciler(objects))

	mux := http.NewServeMux()
	NewHandler(mgr, draft.NewMemorySessions(), model.LocaleEN).
		Register(mux, auth.RequireUser(auth.NewHeaderAuthProvider(userHeader), "session"))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, repo: repo, objects: objects}
}

// client is one browser: a user id and its own cookie jar.
type client struct {
	t    *testing.T
	env  *testEnv
	user string
	http *http.Client
}

func (e *testEnv) client(t *testing.T, user string) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, env: e, user: user, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.env.srv.URL+path, body)
	require.NoError(c.t, err)
	if c.user != "" {
		req.Header.Set(userHeader, c.user)
	}
	if contentType != "" {
		req.Header.Set(config.HCType, contentType)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *client) json(method, path string, v any) *http.Response {
	c.t.Helper()
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(c.t, err)
		body = bytes.NewReader(b)
	}
	return c.do(method, path, body, config.CTypeJSON)
}

func (c *client) submit(image string) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != "" {
		fw, err := mw.CreateFormFile(config.FormImage, image)
		require.NoError(c.t, err)
		_, _ = fw.Write([]byte("png-bytes"))
	}
	require.NoError(c.t, mw.Close())
	return c.do(http.MethodPost, "/api/posts", &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

var postDraft = draft.Fields{
	draft.KeyTitle:            "Flu Season",
	draft.KeyShortDescription: "Stay healthy",
	draft.KeyURL:              "Flu Season",
	draft.KeyContent:          "<p>Wash your hands.</p>",
	draft.KeyAltName:          "a flu shot",
}

func (c *client) createPost() model.PostID {
	c.t.Helper()
	require.Equal(c.t, http.StatusNoContent, c.json(http.MethodPut, "/api/draft", postDraft).StatusCode)
	resp := c.submit("cover.png")
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]model.PostID](c.t, resp)["post_id"]
}

func TestUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t, "").do(http.MethodGet, "/api/draft", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t, "u3").do(http.MethodGet, "/api/me?locale=fa", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := decode[map[string]string](t, resp)
	assert.Equal(t, "t1", me["translatorId"])
	assert.Equal(t, "fa", me["locale"])
	assert.NotContains(t, me, "authorId")
}

func TestDraftAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t, "u1")

	resp := c.do(http.MethodGet, "/api/draft", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[draftResponse](t, resp).Pending)

	require.Equal(t, http.StatusNoContent, c.json(http.MethodPut, "/api/draft", postDraft).StatusCode)

	d := decode[draftResponse](t, c.do(http.MethodGet, "/api/draft", nil, ""))
	assert.True(t, d.Pending)
	assert.Equal(t, "Flu Season", d.Post.Title)

	resp = c.submit("cover.png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[map[string]model.PostID](t, resp)["post_id"]
	require.NotEmpty(t, id)

	post, err := env.repo.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "flu-season", post.URL)
	_, ok := env.objects.Get(asset.ObjectKey("a1", id, "cover.png"))
	assert.True(t, ok)

	d = decode[draftResponse](t, c.do(http.MethodGet, "/api/draft", nil, ""))
	assert.False(t, d.Pending, "draft cleared after submit")

	posts := decode[[]model.Post](t, c.do(http.MethodGet, "/api/posts?mine=true", nil, ""))
	assert.Len(t, posts, 1)

	t.Run("drafts are per session", func(t *testing.T) {
		other := env.client(t, "u1")
		d := decode[draftResponse](t, other.do(http.MethodGet, "/api/draft", nil, ""))
		assert.Empty(t, d.Post.Title)
	})
}

func TestSubmitErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing image", func(t *testing.T) {
		c := env.client(t, "u1")
		require.Equal(t, http.StatusNoContent, c.json(http.MethodPut, "/api/draft", postDraft).StatusCode)

		resp := c.submit("")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		e := decode[ErrorResponse](t, resp)
		assert.Equal(t, "image is required", e.Error)
		assert.False(t, e.Retryable)
	})

	t.Run("not an author", func(t *testing.T) {
		c := env.client(t, "u3")
		resp := c.submit("cover.png")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("bad draft payload", func(t *testing.T) {
		c := env.client(t, "u1")
		resp := c.do(http.MethodPut, "/api/draft", bytes.NewBufferString("{not json"), config.CTypeJSON)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRejectAndDelete(t *testing.T) {
	env := newTestEnv(t)
	owner := env.client(t, "u1")
	id := owner.createPost()

	resp := owner.do(http.MethodPost, "/api/posts/"+string(id)+"/reject", nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	other := env.client(t, "u2")
	resp = other.do(http.MethodPost, "/api/posts/"+string(id)+"/reject", nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = other.do(http.MethodPost, "/api/posts/"+string(id)+"/reject", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	rejected := decode[[]model.Post](t, other.do(http.MethodGet, "/api/posts?rejected=true", nil, ""))
	require.Len(t, rejected, 1)
	assert.True(t, rejected[0].IsRejected)

	resp = owner.do(http.MethodPost, "/api/posts/"+string(id)+"/edit", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "rejected posts cannot be edited")

	resp = other.do(http.MethodDelete, "/api/posts/"+string(id), nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = owner.do(http.MethodDelete, "/api/posts/"+string(id), nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, env.objects.Len())

	resp = owner.do(http.MethodDelete, "/api/posts/"+string(id), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditFlow(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t, "u1")
	id := c.createPost()

	resp := c.do(http.MethodPost, "/api/posts/"+string(id)+"/edit", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	d := decode[draftResponse](t, c.do(http.MethodGet, "/api/draft", nil, ""))
	assert.Equal(t, id, d.Post.PostID)
	assert.True(t, d.Post.EditMode)

	require.Equal(t, http.StatusNoContent,
		c.json(http.MethodPut, "/api/draft", draft.Fields{draft.KeyTitle: "Flu Season 2024"}).StatusCode)

	resp = c.submit("")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	post, err := env.repo.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Flu Season 2024", post.Title)
	assert.Equal(t, "cover.png", post.ImageURL)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/draft", nil, "").StatusCode)
}

func TestTranslationFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.client(t, "u1").createPost()

	tr := env.client(t, "u3")
	resp := tr.do(http.MethodPost, "/api/posts/"+string(id)+"/translate", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Flu Season", decode[model.Post](t, resp).Title)

	resp = tr.do(http.MethodPost, "/api/translations", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "incomplete translation")

	require.Equal(t, http.StatusNoContent, tr.json(http.MethodPut, "/api/draft/translation", draft.Fields{
		draft.KeyTranslateTitle:            "فصل آنفولانزا",
		draft.KeyTranslateShortDescription: "سالم بمانید",
		draft.KeyTranslateContent:          "<p>دست‌ها را بشویید.</p>",
	}).StatusCode)

	resp = tr.do(http.MethodPost, "/api/translations", nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	post, err := env.repo.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, post.IsTranslated)
	assert.Equal(t, model.TranslatorID("t1"), post.TranslatorID)

	require.Equal(t, http.StatusNoContent, tr.do(http.MethodDelete, "/api/draft/translation", nil, "").StatusCode)
}
