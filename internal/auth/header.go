package auth

import (
	"net/http"

	"github.com/doctorazi/blogdesk/internal/model"
)

// HeaderAuthProvider trusts a user id header set by an authenticating proxy.
type HeaderAuthProvider struct {
	header string
}

func NewHeaderAuthProvider(header string) *HeaderAuthProvider {
	return &HeaderAuthProvider{header: header}
}

func (p *HeaderAuthProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return passthrough
}

func (p *HeaderAuthProvider) GetUserIDFromSession(r *http.Request) (model.UserID, error) {
	if id := r.Header.Get(p.header); id != "" {
		return model.UserID(id), nil
	}
	return "", ErrUnauthenticated
}
