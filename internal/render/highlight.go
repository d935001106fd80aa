package render

import (
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/doctorazi/blogdesk/internal/cache"
)

func formatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(false),
		html.WrapLongLines(true),
	)
}

// SyntaxCSS returns the stylesheet for a chroma style, generated once per style.
func SyntaxCSS(style string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(style); ok {
		return css
	}

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	var buf strings.Builder
	bg := s.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Pick a readable text colour when the style only sets a background.
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := formatter().WriteCSS(&buf, s); err != nil {
		renderLogger.Error().Err(err).Str("style", style).Msg("Failed to generate syntax css")
		return ""
	}

	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(style, css)
	return css
}
