package asset

import (
	"context"
	"errors"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/model"
)

// Reconciler keeps exactly one primary image per post in the asset store.
type Reconciler struct {
	backend Backend
}

func NewReconciler(b Backend) *Reconciler {
	return &Reconciler{backend: b}
}

// Attach uploads f for the post and returns the filename to store on it.
func (r *Reconciler) Attach(ctx context.Context, authorID model.AuthorID, postID model.PostID, f File) (string, error) {
	if f.Body == nil {
		return "", apperror.New(apperror.Validation, "image is required", nil)
	}
	f = Normalize(f)

	name, err := r.backend.Upload(ctx, authorID, postID, f)
	if err != nil {
		assetLogger.Error().Err(err).
			Str("author_id", string(authorID)).
			Str("post_id", string(postID)).
			Str("asset", f.Name).
			Msg("Image upload failed")
		return "", apperror.New(apperror.Upload, "failed to upload image", err)
	}
	return name, nil
}

// Replace deletes oldRef and then uploads f. The delete runs first so the
// author never holds two images at once. When the delete succeeds and the
// upload fails the returned error wraps ErrImageRemoved.
func (r *Reconciler) Replace(ctx context.Context, authorID model.AuthorID, postID model.PostID, oldRef string, f File) (string, error) {
	old := NameFromRef(oldRef)
	if old == "" {
		return r.Attach(ctx, authorID, postID, f)
	}
	if f.Body == nil {
		return "", apperror.New(apperror.Validation, "image is required", nil)
	}

	if err := r.backend.Delete(ctx, authorID, postID, old); err != nil {
		return "", apperror.New(apperror.Delete, "failed to remove previous image", err)
	}

	name, err := r.Attach(ctx, authorID, postID, f)
	if err != nil {
		assetLogger.Error().
			Str("author_id", string(authorID)).
			Str("post_id", string(postID)).
			Str("removed", old).
			Msg("Image replaced partially, post has no image")
		return "", apperror.New(apperror.Upload, "previous image was removed but the new image failed to upload",
			errors.Join(ErrImageRemoved, errors.Unwrap(err)))
	}
	return name, nil
}

// Detach deletes the post's image. A missing reference is a no-op.
func (r *Reconciler) Detach(ctx context.Context, authorID model.AuthorID, postID model.PostID, ref string) error {
	name := NameFromRef(ref)
	if name == "" {
		return nil
	}
	if err := r.backend.Delete(ctx, authorID, postID, name); err != nil {
		return apperror.New(apperror.Delete, "failed to delete image", err)
	}
	return nil
}
