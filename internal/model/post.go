// Package model defines core data structures and types for the blog desk.
package model

import (
	"time"
)

type PostID string

type UserID string

type AuthorID string

type TranslatorID string

type Post struct {
	ID       PostID   `json:"post_id"`
	AuthorID AuthorID `json:"author_id"`

	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	URL              string `json:"url"`
	Content          string `json:"content"`
	AltName          string `json:"altName"`

	// Filename of the primary image, relative to blogs/{author}/{post}/.
	ImageURL string `json:"imageUrl"`

	IsRejected bool   `json:"isRejected"`
	RejectedBy UserID `json:"rejectedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	Translation
}

// Translation is the sidecar record attached to a post. It has no id of its own.
type Translation struct {
	TranslatedTitle            string       `json:"translatedTitle"`
	TranslatedShortDescription string       `json:"translatedShortDescription"`
	TranslatedContent          string       `json:"translatedContent"`
	TranslatorID               TranslatorID `json:"translatorId,omitempty"`
	IsTranslated               bool         `json:"isTranslated"`
}

// Complete reports whether every translated content field is non-empty.
func (t Translation) Complete() bool {
	return t.TranslatedTitle != "" && t.TranslatedShortDescription != "" && t.TranslatedContent != ""
}

// PostInput is the payload sent to the repository on create and update.
type PostInput struct {
	AuthorID         AuthorID `json:"authorId"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	URL              string   `json:"url"`
	Content          string   `json:"content"`
	AltName          string   `json:"altName"`
	ImageURL         string   `json:"imageUrl"`
}

// TranslationInput is the payload sent when a translation is submitted.
type TranslationInput struct {
	TranslatedTitle            string       `json:"translatedTitle"`
	TranslatedShortDescription string       `json:"translatedShortDescription"`
	TranslatedContent          string       `json:"translatedContent"`
	TranslatorID               TranslatorID `json:"translatorId"`
	IsTranslated               bool         `json:"isTranslated"`
}

func (in PostInput) Apply(p *Post) {
	p.AuthorID = in.AuthorID
	p.Title = in.Title
	p.ShortDescription = in.ShortDescription
	p.URL = in.URL
	p.Content = in.Content
	p.AltName = in.AltName
	p.ImageURL = in.ImageURL
}

func (in TranslationInput) Apply(p *Post) {
	p.TranslatedTitle = in.TranslatedTitle
	p.TranslatedShortDescription = in.TranslatedShortDescription
	p.TranslatedContent = in.TranslatedContent
	p.TranslatorID = in.TranslatorID
	p.IsTranslated = in.IsTranslated
}

// PostFilter selects posts by rejection flag.
type PostFilter struct {
	Rejected bool
}
