// Package asset stores post images and keeps them paired with post records.
package asset

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var assetLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	assetLogger = l
}

// ErrImageRemoved marks a replace that deleted the old image but failed to
// upload the new one. The post no longer has a usable image.
var ErrImageRemoved = errors.New("previous image removed, new image not uploaded")

type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Backend is the remote asset store.
type Backend interface {
	// Upload stores f and returns the filename it was stored under.
	Upload(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error)
	Delete(ctx context.Context, authorID model.AuthorID, postID model.PostID, filename string) error
}

// ObjectKey is the storage path of a post asset.
func ObjectKey(authorID model.AuthorID, postID model.PostID, filename string) string {
	return path.Join("blogs", string(authorID), string(postID), filename)
}

// PublicURL is the address the image is served from.
func PublicURL(base string, authorID model.AuthorID, postID model.PostID, filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + path.Join("blogs", url.PathEscape(string(authorID)),
		url.PathEscape(string(postID)), url.PathEscape(filename))
}

// NameFromRef extracts the filename from a stored image reference, which may be
// a bare filename, a storage path or an absolute URL.
func NameFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		ref = u.Path
	} else if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Normalize strips whitespace from the file name and invents one from the
// content type when nothing usable is left.
func Normalize(f File) File {
	f.Name = util.StripWhitespace(path.Base(strings.ReplaceAll(f.Name, "\\", "/")))
	if f.Name == "" || f.Name == "." || f.Name == "/" {
		ext := ".jpg"
		if exts, err := mime.ExtensionsByType(f.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
		f.Name = uuid.New().String() + ext
	}
	if f.ContentType == "" {
		f.ContentType = contentTypeOf(f.Name)
	}
	return f
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
