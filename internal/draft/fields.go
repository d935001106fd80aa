package draft

import (
	"strconv"

	"github.com/doctorazi/blogdesk/internal/model"
)

const (
	KeyTitle            = "title"
	KeyShortDescription = "shortDescription"
	KeyURL              = "url"
	KeyContent          = "content"
	KeyAltName          = "altName"
	KeyMainPicture      = "mainPicture"
	KeyPostID           = "postId"
	KeyEditMode         = "editMode"

	// Older editors stored the post body under this key.
	KeyLegacyContent = "model"
)

const (
	KeyTranslateTitle            = "translateTitle"
	KeyTranslateShortDescription = "translateShortDescription"
	KeyTranslateContent          = "translateContent"
	KeyTranslatePostID           = "translatePostId"
	KeyTranslateEditMode         = "translateEditMode"
)

var postKeys = []string{
	KeyTitle, KeyShortDescription, KeyURL, KeyContent,
	KeyAltName, KeyMainPicture, KeyPostID, KeyEditMode,
}

var translationKeys = []string{
	KeyTranslateTitle, KeyTranslateShortDescription, KeyTranslateContent,
	KeyTranslatePostID, KeyTranslateEditMode,
}

func NewPostStore(b Backend) *Store {
	return newStore(b, postKeys, map[string]string{KeyContent: KeyLegacyContent}, postKeys[:6])
}

func NewTranslationStore(b Backend) *Store {
	return newStore(b, translationKeys, nil, translationKeys[:3])
}

// PostDraft is the typed form of a post draft. An empty PostID marks a new post.
type PostDraft struct {
	PostID           model.PostID `json:"postId"`
	Title            string       `json:"title"`
	ShortDescription string       `json:"shortDescription"`
	URL              string       `json:"url"`
	Content          string       `json:"content"`
	AltName          string       `json:"altName"`
	MainPicture      string       `json:"mainPicture"`
	EditMode         bool         `json:"editMode"`
}

type TranslationDraft struct {
	PostID           model.PostID `json:"postId"`
	Title            string       `json:"title"`
	ShortDescription string       `json:"shortDescription"`
	Content          string       `json:"content"`
	EditMode         bool         `json:"editMode"`
}

func EncodePost(d PostDraft) Fields {
	return Fields{
		KeyPostID:           string(d.PostID),
		KeyTitle:            d.Title,
		KeyShortDescription: d.ShortDescription,
		KeyURL:              d.URL,
		KeyContent:          d.Content,
		KeyAltName:          d.AltName,
		KeyMainPicture:      d.MainPicture,
		KeyEditMode:         strconv.FormatBool(d.EditMode),
	}
}

func DecodePost(f Fields) PostDraft {
	return PostDraft{
		PostID:           model.PostID(f[KeyPostID]),
		Title:            f[KeyTitle],
		ShortDescription: f[KeyShortDescription],
		URL:              f[KeyURL],
		Content:          f[KeyContent],
		AltName:          f[KeyAltName],
		MainPicture:      f[KeyMainPicture],
		EditMode:         parseBool(f[KeyEditMode]),
	}
}

func EncodeTranslation(d TranslationDraft) Fields {
	return Fields{
		KeyTranslatePostID:           string(d.PostID),
		KeyTranslateTitle:            d.Title,
		KeyTranslateShortDescription: d.ShortDescription,
		KeyTranslateContent:          d.Content,
		KeyTranslateEditMode:         strconv.FormatBool(d.EditMode),
	}
}

func DecodeTranslation(f Fields) TranslationDraft {
	return TranslationDraft{
		PostID:           model.PostID(f[KeyTranslatePostID]),
		Title:            f[KeyTranslateTitle],
		ShortDescription: f[KeyTranslateShortDescription],
		Content:          f[KeyTranslateContent],
		EditMode:         parseBool(f[KeyTranslateEditMode]),
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

// Input converts the draft into a repository payload.
func (d PostDraft) Input(authorID model.AuthorID, imageURL string) model.PostInput {
	return model.PostInput{
		AuthorID:         authorID,
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		URL:              d.URL,
		Content:          d.Content,
		AltName:          d.AltName,
		ImageURL:         imageURL,
	}
}
