package render

import (
	"fmt"
	"html/template"
	"time"

	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/model"
	ptime "github.com/yaa110/go-persian-calendar"
)

const UnknownAuthor = "Unknown Author"

// PostView is everything the public post template needs.
type PostView struct {
	ID     model.PostID
	Locale model.Locale
	Dir    string

	Title            string
	ShortDescription string
	Content          template.HTML

	AuthorName     string
	TranslatorName string
	Date           string

	ImageURL string
	AltName  string

	// Fallback is set when a fa page shows the original text.
	Fallback bool
}

// FormatDate renders t as yyyy-MM-dd, in the Jalali calendar for fa.
func FormatDate(t time.Time, locale model.Locale) string {
	if locale == model.LocaleFA {
		pt := ptime.New(t)
		return fmt.Sprintf("%04d-%02d-%02d", pt.Year(), int(pt.Month()), pt.Day())
	}
	return t.Format("2006-01-02")
}

// BuildPostView selects the fields for locale. An empty author name becomes
// UnknownAuthor; an empty translator name stays empty and is not shown.
func BuildPostView(post *model.Post, authorName, translatorName string, locale model.Locale, assetBase string) PostView {
	v := PostView{
		ID:               post.ID,
		Locale:           locale,
		Dir:              "ltr",
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          template.HTML(post.Content),
		AuthorName:       authorName,
		TranslatorName:   translatorName,
		Date:             FormatDate(post.CreatedAt, locale),
		AltName:          post.AltName,
	}
	if v.AuthorName == "" {
		v.AuthorName = UnknownAuthor
	}
	if locale.RTL() {
		v.Dir = "rtl"
	}

	if locale == model.LocaleFA {
		if post.IsTranslated && post.Complete() {
			v.Title = post.TranslatedTitle
			v.ShortDescription = post.TranslatedShortDescription
			v.Content = template.HTML(post.TranslatedContent)
		} else {
			v.Fallback = true
		}
	}

	if post.ImageURL != "" {
		v.ImageURL = asset.PublicURL(assetBase, post.AuthorID, post.ID, asset.NameFromRef(post.ImageURL))
	}
	return v
}
