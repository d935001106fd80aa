package model

import (
	"html/template"
	"net/http"
)

type PageData struct {
	SiteName string

	PageURL string

	Locale Locale
	Dir    string

	Title       string
	Description string

	SyntaxCSS template.CSS
}

func NewPageData(r *http.Request, siteName string, locale Locale) *PageData {
	dir := "ltr"
	if locale.RTL() {
		dir = "rtl"
	}
	return &PageData{
		SiteName: siteName,
		PageURL:  r.URL.Path,
		Locale:   locale,
		Dir:      dir,
	}
}
