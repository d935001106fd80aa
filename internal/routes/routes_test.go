package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doctorazi/blogdesk/internal/model"
)

func TestPostURL(t *testing.T) {
	tests := []struct {
		locale model.Locale
		id     model.PostID
		slug   string
		want   string
	}{
		{model.LocaleEN, "p1", "flu-season", "/en/blog/p1/flu-season"},
		{model.LocaleFA, "p1", "", "/fa/blog/p1"},
		{model.LocaleEN, "p 2", "a/b", "/en/blog/p%202/a%2Fb"},
	}

	for _, tt := range tests {
		if got := PostURL(tt.locale, tt.id, tt.slug); got != tt.want {
			t.Errorf("PostURL(%q, %q, %q) = %q, expected %q", tt.locale, tt.id, tt.slug, got, tt.want)
		}
	}
}

func TestPostURLMatchesPostPage(t *testing.T) {
	mux := http.NewServeMux()
	var gotID, gotSlug string
	mux.HandleFunc(PostPage, func(w http.ResponseWriter, r *http.Request) {
		gotID, gotSlug = r.PathValue("id"), r.PathValue("slug")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", PostURL(model.LocaleEN, "p1", "flu-season"), nil))
	if gotID != "p1" || gotSlug != "flu-season" {
		t.Errorf("Expected id p1 and slug flu-season, got %q and %q", gotID, gotSlug)
	}
}
