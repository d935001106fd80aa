// Package util provides slug, filename and front matter helpers.
package util

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
)

// FormatSlug lowercases s and replaces every whitespace run with a single hyphen.
func FormatSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// StripWhitespace removes all whitespace from a file name.
func StripWhitespace(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// FrontMatter is the metadata block of an importable markdown post.
type FrontMatter struct {
	Title            string    `toml:"title"`
	URL              string    `toml:"url"`
	ShortDescription string    `toml:"shortDescription"`
	Description      string    `toml:"description"`
	AltName          string    `toml:"altName"`
	Image            string    `toml:"image"`
	Language         string    `toml:"language"`
	Date             time.Time `toml:"date"`

	// Consumed is the number of bytes taken by the front matter block.
	Consumed int `toml:"-"`
}

// Summary returns the short description, falling back to description.
func (f *FrontMatter) Summary() string {
	if f.ShortDescription != "" {
		return f.ShortDescription
	}
	return f.Description
}

func GetFrontMatter(md []byte) (*FrontMatter, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	delimiter := []byte("%%%")

	if len(md) < 2*len(delimiter) {
		return nil, fmt.Errorf("invalid front matter format")
	}

	first := bytes.Index(md[:len(delimiter)+1], delimiter)
	if first == -1 {
		return nil, fmt.Errorf("invalid front matter format")
	}

	second := bytes.Index(md[first+len(delimiter):], delimiter)
	if second == -1 {
		return nil, fmt.Errorf("invalid front matter format")
	}

	end := second + 2*len(delimiter) + 1
	if end > len(md) {
		end = len(md)
	}

	info := &FrontMatter{}
	frontMatter := md[len(delimiter) : second+len(delimiter)]
	if _, err := toml.Decode(string(frontMatter), info); err != nil {
		return nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	if info.Language == "" {
		info.Language = "en"
	}
	info.Consumed = end

	return info, nil
}

// SplitFrontMatter returns the decoded front matter and the markdown body after it.
func SplitFrontMatter(md []byte) (*FrontMatter, []byte, error) {
	info, err := GetFrontMatter(md)
	if err != nil {
		return nil, nil, err
	}
	md = bytes.TrimLeft(markdown.NormalizeNewlines(md), "\n \t\r")
	return info, md[info.Consumed:], nil
}
