// Package auth resolves the acting user from the incoming request.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/rs/zerolog"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

var ErrUnauthenticated = errors.New("unauthenticated")

type AuthProvider interface {
	// WithHeaderAuthorization returns middleware that verifies credentials
	// before GetUserIDFromSession is consulted.
	WithHeaderAuthorization() func(http.Handler) http.Handler

	GetUserIDFromSession(r *http.Request) (model.UserID, error)
}

// NewProvider builds the provider selected in the auth config section.
func NewProvider(cfg config.AuthConfig, secrets config.Secrets) (AuthProvider, error) {
	switch cfg.Provider {
	case "jwt":
		return NewJWTAuthProvider([]byte(secrets.JWTSecret), cfg.Cookie), nil
	case "clerk":
		return NewClerkAuthProvider(secrets.ClerkAPIKey), nil
	case "header":
		return NewHeaderAuthProvider(cfg.Header), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// RequireUser rejects requests without a resolvable user and stores the user id
// and the backend session cookie in the request context.
func RequireUser(p AuthProvider, sessionCookie string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return p.WithHeaderAuthorization()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := p.GetUserIDFromSession(r)
			if err != nil {
				authLogger.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				http.Error(w, config.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			if c, err := r.Cookie(sessionCookie); err == nil {
				ctx = ContextWithSession(ctx, c.Value)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
