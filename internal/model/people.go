package model

type Author struct {
	AuthorID AuthorID `json:"authorId"`
	UserID   UserID   `json:"userId"`
}

type Translator struct {
	TranslatorID TranslatorID `json:"translatorId"`
	UserID       UserID       `json:"userId"`
}

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFA Locale = "fa"
)

func ParseLocale(s string) (Locale, bool) {
	switch Locale(s) {
	case LocaleEN, LocaleFA:
		return Locale(s), true
	}
	return "", false
}

// RTL reports whether the locale is written right to left.
func (l Locale) RTL() bool {
	return l == LocaleFA
}

// Actor is the user performing a workflow operation. AuthorID and
// TranslatorID are empty when the user holds no such role.
type Actor struct {
	UserID       UserID
	AuthorID     AuthorID
	TranslatorID TranslatorID
	Locale       Locale
}

func (a Actor) IsAuthor() bool {
	return a.AuthorID != ""
}

func (a Actor) IsTranslator() bool {
	return a.TranslatorID != ""
}
