// Package routes defines the HTTP route patterns served by blogdesk.
package routes

import (
	"net/url"

	"github.com/doctorazi/blogdesk/internal/model"
)

// Public pages
const (
	RobotsPath = "GET /robots.txt"
	HealthPath = "GET /health"
	SSEPath    = "GET /sse"

	PostPage     = "GET /{locale}/blog/{id}/{slug}"
	PostPageBare = "GET /{locale}/blog/{id}"
)

// API
const (
	APIMe = "GET /api/me"

	APIDraftGet              = "GET /api/draft"
	APIDraftSave             = "PUT /api/draft"
	APIDraftReset            = "DELETE /api/draft"
	APITranslationDraftSave  = "PUT /api/draft/translation"
	APITranslationDraftReset = "DELETE /api/draft/translation"

	APIPostsList          = "GET /api/posts"
	APIPostsSubmit        = "POST /api/posts"
	APIPostDelete         = "DELETE /api/posts/{id}"
	APIPostEdit           = "POST /api/posts/{id}/edit"
	APIPostReject         = "POST /api/posts/{id}/reject"
	APIPostTranslate      = "POST /api/posts/{id}/translate"
	APITranslationsSubmit = "POST /api/translations"
)

// PostURL is the public path of a post page. The slug is optional.
func PostURL(locale model.Locale, id model.PostID, slug string) string {
	p := "/" + string(locale) + "/blog/" + url.PathEscape(string(id))
	if slug != "" {
		p += "/" + url.PathEscape(slug)
	}
	return p
}
