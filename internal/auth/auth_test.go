package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func TestJWTAuthProvider(t *testing.T) {
	p := NewJWTAuthProvider(testSecret, "token")

	tests := []struct {
		name    string
		request func() *http.Request
		want    model.UserID
		wantErr bool
	}{
		{
			name: "cookie with id claim",
			request: func() *http.Request {
				r := httptest.NewRequest("GET", "/", nil)
				r.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, testSecret, jwt.MapClaims{"id": "u1"})})
				return r
			},
			want: "u1",
		},
		{
			name: "bearer header with subject",
			request: func() *http.Request {
				r := httptest.NewRequest("GET", "/", nil)
				r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": "u2"}))
				return r
			},
			want: "u2",
		},
		{
			name:    "no token",
			request: func() *http.Request { return httptest.NewRequest("GET", "/", nil) },
			wantErr: true,
		},
		{
			name: "wrong secret",
			request: func() *http.Request {
				r := httptest.NewRequest("GET", "/", nil)
				r.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, []byte("other"), jwt.MapClaims{"id": "u1"})})
				return r
			},
			wantErr: true,
		},
		{
			name: "expired",
			request: func() *http.Request {
				r := httptest.NewRequest("GET", "/", nil)
				claims := jwt.MapClaims{"id": "u1", "exp": time.Now().Add(-time.Hour).Unix()}
				r.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, testSecret, claims)})
				return r
			},
			wantErr: true,
		},
		{
			name: "no user claim",
			request: func() *http.Request {
				r := httptest.NewRequest("GET", "/", nil)
				r.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, testSecret, jwt.MapClaims{"role": "x"})})
				return r
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetUserIDFromSession(tt.request())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected user %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHeaderAuthProvider(t *testing.T) {
	p := NewHeaderAuthProvider("X-User-Id")

	r := httptest.NewRequest("GET", "/", nil)
	if _, err := p.GetUserIDFromSession(r); err == nil {
		t.Error("Expected error without header")
	}

	r.Header.Set("X-User-Id", "u7")
	id, err := p.GetUserIDFromSession(r)
	if err != nil || id != "u7" {
		t.Errorf("Expected u7, got %q (%v)", id, err)
	}
}

func TestRequireUser(t *testing.T) {
	var gotUser model.UserID
	var gotSession string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotSession, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	h := RequireUser(NewHeaderAuthProvider("X-User-Id"), "session")(next)

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/draft", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("authenticated with session", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/draft", nil)
		r.Header.Set("X-User-Id", "u1")
		r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", w.Code)
		}
		if gotUser != "u1" || gotSession != "abc" {
			t.Errorf("Expected user u1 and session abc, got %q and %q", gotUser, gotSession)
		}
	})
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := UserIDFromContext(ctx); ok {
		t.Error("Expected no user in empty context")
	}
	if _, ok := SessionFromContext(ContextWithSession(ctx, "")); ok {
		t.Error("Expected empty session to be treated as absent")
	}

	ctx = ContextWithUserID(ctx, "u1")
	if id, ok := UserIDFromContext(ctx); !ok || id != "u1" {
		t.Errorf("Expected u1, got %q", id)
	}
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"jwt", "header"} {
		p, err := NewProvider(config.AuthConfig{Provider: name, Header: "X-User-Id", Cookie: "token"}, config.Secrets{JWTSecret: "s"})
		if err != nil || p == nil {
			t.Errorf("Expected provider for %s, got %v", name, err)
		}
	}
	if _, err := NewProvider(config.AuthConfig{Provider: "saml"}, config.Secrets{}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestIssueToken(t *testing.T) {
	raw, err := IssueToken(testSecret, "u7", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+raw)
	id, err := NewJWTAuthProvider(testSecret, "token").GetUserIDFromSession(r)
	if err != nil || id != model.UserID("u7") {
		t.Errorf("Expected u7, got %q (%v)", id, err)
	}

	expired, _ := IssueToken(testSecret, "u7", -time.Minute)
	r.Header.Set("Authorization", "Bearer "+expired)
	if _, err := NewJWTAuthProvider(testSecret, "token").GetUserIDFromSession(r); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}
