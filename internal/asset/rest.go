package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/model"
)

// RESTBackend talks to the backend's file endpoints:
//
//	POST   {base}/files/{authorId}/{postId}            multipart "file" -> {"filename": "..."}
//	DELETE {base}/files/{authorId}/{postId}/{filename}
type RESTBackend struct {
	baseURL       string
	sessionCookie string
	client        *http.Client
}

func NewRESTBackend(baseURL, sessionCookie string, timeout time.Duration) *RESTBackend {
	return &RESTBackend{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sessionCookie: sessionCookie,
		client:        &http.Client{Timeout: timeout},
	}
}

func (b *RESTBackend) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return b.baseURL + "/files/" + strings.Join(escaped, "/")
}

func (b *RESTBackend) do(req *http.Request) (*http.Response, error) {
	if token, ok := auth.SessionFromContext(req.Context()); ok {
		req.AddCookie(&http.Cookie{Name: b.sessionCookie, Value: token})
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (b *RESTBackend) Upload(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	h.Set("Content-Type", f.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint(string(authorID), string(postID)), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Filename == "" {
		return f.Name, nil
	}
	return out.Filename, nil
}

func (b *RESTBackend) Delete(ctx context.Context, authorID model.AuthorID, postID model.PostID, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.endpoint(string(authorID), string(postID), filename), nil)
	if err != nil {
		return err
	}
	resp, err := b.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
