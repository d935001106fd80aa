package render

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doctorazi/blogdesk/internal/model"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		t      time.Time
		locale model.Locale
		want   string
	}{
		{"gregorian", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), model.LocaleEN, "2024-01-01"},
		{"jalali", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), model.LocaleFA, "1402-10-11"},
		{"nowruz", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), model.LocaleFA, "1403-01-01"},
		{"padded", time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC), model.LocaleEN, "2023-09-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.t, tt.locale); got != tt.want {
				t.Errorf("FormatDate() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func samplePost() *model.Post {
	return &model.Post{
		ID:               "p1",
		AuthorID:         "a1",
		Title:            "Flu Season",
		ShortDescription: "Stay healthy",
		Content:          "<p>Wash your hands.</p>",
		AltName:          "a flu shot",
		ImageURL:         "cover.png",
		CreatedAt:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildPostView(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		v := BuildPostView(samplePost(), "Dr. Azi", "", model.LocaleEN, "https://cdn.example.com/")

		if v.Title != "Flu Season" || v.Dir != "ltr" {
			t.Errorf("Unexpected view: %+v", v)
		}
		if v.ImageURL != "https://cdn.example.com/blogs/a1/p1/cover.png" {
			t.Errorf("Unexpected image url %q", v.ImageURL)
		}
		if v.Date != "2024-01-01" {
			t.Errorf("Expected gregorian date, got %q", v.Date)
		}
		if v.TranslatorName != "" {
			t.Error("Expected no translator line")
		}
		if v.Fallback {
			t.Error("English page never falls back")
		}
	})

	t.Run("farsi translated", func(t *testing.T) {
		p := samplePost()
		p.Translation = model.Translation{
			TranslatedTitle:            "فصل آنفولانزا",
			TranslatedShortDescription: "سالم بمانید",
			TranslatedContent:          "<p>دست‌ها را بشویید.</p>",
			TranslatorID:               "t1",
			IsTranslated:               true,
		}

		v := BuildPostView(p, "Dr. Azi", "Sara", model.LocaleFA, "https://cdn.example.com")
		if v.Title != "فصل آنفولانزا" || string(v.Content) != "<p>دست‌ها را بشویید.</p>" {
			t.Errorf("Expected translated fields, got %+v", v)
		}
		if v.Dir != "rtl" || v.Date != "1402-10-11" || v.TranslatorName != "Sara" {
			t.Errorf("Unexpected view: %+v", v)
		}
		if v.Fallback {
			t.Error("Expected no fallback for a translated post")
		}
	})

	t.Run("farsi untranslated", func(t *testing.T) {
		v := BuildPostView(samplePost(), "", "", model.LocaleFA, "https://cdn.example.com")
		if !v.Fallback || v.Title != "Flu Season" {
			t.Errorf("Expected original text with fallback flag, got %+v", v)
		}
		if v.AuthorName != UnknownAuthor {
			t.Errorf("Expected %q, got %q", UnknownAuthor, v.AuthorName)
		}
	})

	t.Run("no image", func(t *testing.T) {
		p := samplePost()
		p.ImageURL = ""
		if v := BuildPostView(p, "x", "", model.LocaleEN, "https://cdn.example.com"); v.ImageURL != "" {
			t.Errorf("Expected no banner, got %q", v.ImageURL)
		}
	})
}

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
	}{
		{"heading", "# Flu Season\n\nSome text.", []string{"<h1", "Flu Season", "<p>Some text.</p>"}},
		{"code block", "```go\nfunc main() {}\n```", []string{`<div class="highlight">`, "chroma"}},
		{"link", "[clinic](https://example.com)", []string{`href="https://example.com"`, `target="_blank"`}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(MarkdownToHTML([]byte(tt.markdown), model.LocaleEN, "github"))
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got %s", want, out)
				}
			}
		})
	}
}

func TestHighlightCode(t *testing.T) {
	out := HighlightCode("x := 1 // <<1>>", "go", "github")
	if !strings.Contains(out, `<span class="callout">1</span>`) {
		t.Errorf("Expected callout span, got %s", out)
	}

	out = HighlightCode("<script>alert(1)</script>", "no-such-language", "no-such-style")
	if strings.Contains(out, "<script>") {
		t.Errorf("Expected code to stay escaped, got %s", out)
	}
}

func TestSyntaxCSS(t *testing.T) {
	css := SyntaxCSS("monokai")
	if !strings.Contains(string(css), ".chroma") {
		t.Fatalf("Expected chroma rules, got %q", css)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if SyntaxCSS("monokai") != css {
				t.Error("Expected cached css to be stable")
			}
		}()
	}
	wg.Wait()

	if SyntaxCSS("no-such-style") == "" {
		t.Error("Expected fallback style css")
	}
}
