// Package repository accesses the post system of record and the people directory.
package repository

import (
	"context"

	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/rs/zerolog"
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

type PostRepository interface {
	GetPost(ctx context.Context, id model.PostID) (*model.Post, error)
	ListPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	CreatePost(ctx context.Context, in model.PostInput) (model.PostID, error)
	UpdatePost(ctx context.Context, id model.PostID, in model.PostInput) error
	DeletePost(ctx context.Context, id model.PostID) error
	RejectPost(ctx context.Context, id model.PostID, rejectedBy model.UserID) error
	AddTranslation(ctx context.Context, id model.PostID, in model.TranslationInput) error
	URLExists(ctx context.Context, url string) (bool, error)
}

// Directory resolves authors, translators and display names.
type Directory interface {
	GetAuthor(ctx context.Context, id model.AuthorID) (*model.Author, error)
	GetAuthorByUser(ctx context.Context, userID model.UserID) (*model.Author, error)
	GetTranslator(ctx context.Context, id model.TranslatorID) (*model.Translator, error)
	GetTranslatorByUser(ctx context.Context, userID model.UserID) (*model.Translator, error)
	FullName(ctx context.Context, userID model.UserID) (string, error)
}
