package workflow

import (
	"context"
	"strings"

	"github.com/doctorazi/blogdesk/internal/model"
)

type ListOptions struct {
	Rejected bool
	// Mine keeps only posts written by the acting author.
	Mine  bool
	Query string
}

func (m *Manager) ListPosts(ctx context.Context, actor model.Actor, opts ListOptions) ([]model.Post, error) {
	posts, err := m.repo.ListPosts(ctx, model.PostFilter{Rejected: opts.Rejected})
	if err != nil {
		return nil, err
	}

	if opts.Mine {
		own := make([]model.Post, 0, len(posts))
		for _, p := range posts {
			if actor.IsAuthor() && p.AuthorID == actor.AuthorID {
				own = append(own, p)
			}
		}
		posts = own
	}

	return Filter(posts, opts.Query), nil
}

// Filter returns the posts whose title or short description contains query,
// ignoring case. An empty query matches everything.
func Filter(posts []model.Post, query string) []model.Post {
	out := make([]model.Post, 0, len(posts))
	q := strings.ToLower(query)
	for _, p := range posts {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.ShortDescription), q) {
			out = append(out, p)
		}
	}
	return out
}
