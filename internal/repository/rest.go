package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/model"
)

// RESTRepository implements PostRepository and Directory over the backend's JSON API.
// Requests carry the caller's session cookie when one is present in the context.
type RESTRepository struct {
	baseURL       string
	sessionCookie string
	client        *http.Client
}

func NewRESTRepository(baseURL, sessionCookie string, timeout time.Duration) *RESTRepository {
	return &RESTRepository{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sessionCookie: sessionCookie,
		client:        &http.Client{Timeout: timeout},
	}
}

func (r *RESTRepository) url(query url.Values, parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u := r.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// call performs the request and decodes a JSON response into out when out is non-nil.
func (r *RESTRepository) call(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperror.New(apperror.Internal, "failed to encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return apperror.New(apperror.Internal, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := auth.SessionFromContext(ctx); ok {
		req.AddCookie(&http.Cookie{Name: r.sessionCookie, Value: token})
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		repoLogger.Error().Err(err).Str("method", method).Str("url", target).Msg("Backend request failed")
		return apperror.New(apperror.Transport, "backend unreachable", err)
	}
	defer resp.Body.Close()

	repoLogger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.New(apperror.Transport, "malformed backend response", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	origin := fmt.Errorf("status %d: %s", resp.StatusCode, msg)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperror.New(apperror.NotFound, "not found", origin)
	case http.StatusConflict:
		return apperror.New(apperror.Conflict, msg, origin)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperror.New(apperror.Validation, msg, origin)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperror.New(apperror.Forbidden, "not permitted", origin)
	default:
		return apperror.New(apperror.Transport, "backend error", origin)
	}
}

func (r *RESTRepository) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	var p model.Post
	if err := r.call(ctx, http.MethodGet, r.url(nil, "posts", string(id)), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RESTRepository) ListPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	q := url.Values{"rejected": {strconv.FormatBool(filter.Rejected)}}
	var posts []model.Post
	if err := r.call(ctx, http.MethodGet, r.url(q, "posts"), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *RESTRepository) CreatePost(ctx context.Context, in model.PostInput) (model.PostID, error) {
	var out struct {
		ID model.PostID `json:"post_id"`
	}
	if err := r.call(ctx, http.MethodPost, r.url(nil, "posts"), in, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", apperror.New(apperror.Transport, "backend returned no post id", nil)
	}
	return out.ID, nil
}

func (r *RESTRepository) UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) error {
	return r.call(ctx, http.MethodPut, r.url(nil, "posts", string(id)), in, nil)
}

func (r *RESTRepository) DeletePost(ctx context.Context, id model.PostID) error {
	return r.call(ctx, http.MethodDelete, r.url(nil, "posts", string(id)), nil, nil)
}

func (r *RESTRepository) RejectPost(ctx context.Context, id model.PostID, rejectedBy model.UserID) error {
	body := map[string]any{"isRejected": true, "rejectedBy": rejectedBy}
	return r.call(ctx, http.MethodPut, r.url(nil, "posts", string(id), "reject"), body, nil)
}

func (r *RESTRepository) AddTranslation(ctx context.Context, id model.PostID, in model.TranslationInput) error {
	return r.call(ctx, http.MethodPost, r.url(nil, "posts", string(id), "translation"), in, nil)
}

func (r *RESTRepository) URLExists(ctx context.Context, slug string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	q := url.Values{"url": {slug}}
	if err := r.call(ctx, http.MethodGet, r.url(q, "posts", "url-exists"), nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (r *RESTRepository) GetAuthor(ctx context.Context, id model.AuthorID) (*model.Author, error) {
	var a model.Author
	if err := r.call(ctx, http.MethodGet, r.url(nil, "authors", string(id)), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *RESTRepository) GetAuthorByUser(ctx context.Context, userID model.UserID) (*model.Author, error) {
	var a model.Author
	if err := r.call(ctx, http.MethodGet, r.url(nil, "authors", "by-user", string(userID)), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *RESTRepository) GetTranslator(ctx context.Context, id model.TranslatorID) (*model.Translator, error) {
	var tr model.Translator
	if err := r.call(ctx, http.MethodGet, r.url(nil, "translators", string(id)), nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *RESTRepository) GetTranslatorByUser(ctx context.Context, userID model.UserID) (*model.Translator, error) {
	var tr model.Translator
	if err := r.call(ctx, http.MethodGet, r.url(nil, "translators", "by-user", string(userID)), nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *RESTRepository) FullName(ctx context.Context, userID model.UserID) (string, error) {
	var out struct {
		FullName string `json:"fullName"`
	}
	if err := r.call(ctx, http.MethodGet, r.url(nil, "users", string(userID), "full-name"), nil, &out); err != nil {
		return "", err
	}
	return out.FullName, nil
}
