package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthProvider verifies HS256 tokens issued by the backend. The user id is
// read from the "id" claim, falling back to "sub".
type JWTAuthProvider struct {
	secret []byte
	cookie string
}

func NewJWTAuthProvider(secret []byte, cookie string) *JWTAuthProvider {
	return &JWTAuthProvider{secret: secret, cookie: cookie}
}

func (p *JWTAuthProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return passthrough
}

func (p *JWTAuthProvider) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(p.cookie); err == nil {
		return c.Value
	}
	return ""
}

func (p *JWTAuthProvider) GetUserIDFromSession(r *http.Request) (model.UserID, error) {
	raw := p.token(r)
	if raw == "" {
		return "", ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if id, ok := claims["id"].(string); ok && id != "" {
		return model.UserID(id), nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return model.UserID(sub), nil
	}
	return "", fmt.Errorf("%w: token has no user id", ErrUnauthenticated)
}

// IssueToken signs a token that GetUserIDFromSession accepts, valid for ttl.
func IssueToken(secret []byte, userID model.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  string(userID),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
