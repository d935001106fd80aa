// Package workflow implements the post lifecycle: submission, editing,
// translation, rejection and deletion of blog posts.
package workflow

import (
	"context"
	"errors"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/cache"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/repository"
	"github.com/rs/zerolog"
)

var workflowLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	workflowLogger = l
}

// Manager coordinates the draft store, the asset reconciler and the post
// repository. It holds no locks: concurrent invocations of the same
// transition must be prevented by the caller.
type Manager struct {
	repo   repository.PostRepository
	people repository.Directory
	assets *asset.Reconciler

	notify func(model.PostID)
	roles  *cache.Cache[model.UserID, roles]
}

type Option func(*Manager)

// WithNotifier registers a callback run after a committed post changes.
func WithNotifier(fn func(model.PostID)) Option {
	return func(m *Manager) {
		m.notify = fn
	}
}

func NewManager(repo repository.PostRepository, people repository.Directory, assets *asset.Reconciler, opts ...Option) *Manager {
	m := &Manager{
		repo:   repo,
		people: people,
		assets: assets,
		roles:  cache.NewCache[model.UserID, roles](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) notifyChanged(id model.PostID) {
	if m.notify != nil {
		m.notify(id)
	}
}

func forbidden(msg string) error {
	return apperror.New(apperror.Forbidden, msg, nil)
}

func clearDraft(store *draft.Store, id model.PostID) {
	if err := store.Clear(); err != nil {
		workflowLogger.Warn().Err(err).Str("post_id", string(id)).Msg("Committed but failed to clear draft")
	}
}

// Submit commits the post draft held in store. An empty draft post id creates
// a new post and requires image; otherwise the existing post is updated and
// image, when given, replaces the current one. The draft is cleared only on
// success.
func (m *Manager) Submit(ctx context.Context, actor model.Actor, store *draft.Store, image *asset.File) (model.PostID, error) {
	if !actor.IsAuthor() {
		return "", forbidden("only authors can submit posts")
	}

	d := trimPost(draft.DecodePost(store.Load()))

	if err := validatePost(d); err != nil {
		return "", err
	}

	if d.PostID == "" {
		return m.create(ctx, actor, store, d, image)
	}
	return d.PostID, m.update(ctx, actor, store, d, image)
}

func (m *Manager) ensureURLFree(ctx context.Context, slug string) error {
	exists, err := m.repo.URLExists(ctx, slug)
	if err != nil {
		return err
	}
	if exists {
		return apperror.New(apperror.Validation, "url is already in use", nil)
	}
	return nil
}

func (m *Manager) create(ctx context.Context, actor model.Actor, store *draft.Store, d draft.PostDraft, image *asset.File) (model.PostID, error) {
	if image == nil || image.Body == nil {
		return "", apperror.New(apperror.Validation, "image is required", nil)
	}
	if err := m.ensureURLFree(ctx, d.URL); err != nil {
		return "", err
	}

	// The asset path needs the post id, so the record is created first and
	// removed again if the upload fails.
	img := asset.Normalize(*image)
	in := d.Input(actor.AuthorID, img.Name)

	id, err := m.repo.CreatePost(ctx, in)
	if err != nil {
		return "", err
	}

	name, err := m.assets.Attach(ctx, actor.AuthorID, id, img)
	if err != nil {
		if derr := m.repo.DeletePost(ctx, id); derr != nil {
			workflowLogger.Error().Err(derr).Str("post_id", string(id)).Msg("Failed to roll back post after upload failure")
		}
		return "", err
	}

	if name != img.Name {
		in.ImageURL = name
		if err := m.repo.UpdatePost(ctx, id, in); err != nil {
			return "", err
		}
	}

	clearDraft(store, id)
	workflowLogger.Info().Str("post_id", string(id)).Str("author_id", string(actor.AuthorID)).Msg("Post created")
	return id, nil
}

func (m *Manager) update(ctx context.Context, actor model.Actor, store *draft.Store, d draft.PostDraft, image *asset.File) error {
	post, err := m.repo.GetPost(ctx, d.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.AuthorID {
		return forbidden("only the author can edit this post")
	}
	if err := editable(post); err != nil {
		return err
	}

	if d.URL != post.URL {
		if err := m.ensureURLFree(ctx, d.URL); err != nil {
			return err
		}
	}

	imageURL := post.ImageURL
	if image != nil && image.Body != nil {
		imageURL, err = m.assets.Replace(ctx, post.AuthorID, post.ID, post.ImageURL, *image)
		if errors.Is(err, asset.ErrImageRemoved) {
			m.dropImage(ctx, post, store)
		}
		if err != nil {
			return err
		}
	} else if imageURL == "" {
		return apperror.New(apperror.Validation, "image is required", nil)
	}

	if err := m.repo.UpdatePost(ctx, post.ID, d.Input(post.AuthorID, imageURL)); err != nil {
		return err
	}

	clearDraft(store, post.ID)
	m.notifyChanged(post.ID)
	workflowLogger.Info().Str("post_id", string(post.ID)).Msg("Post updated")
	return nil
}

// editable refuses posts that left the Saved state. Rejection is terminal
// apart from deletion.
func editable(post *model.Post) error {
	if StateOf(post) == model.StateRejected {
		return apperror.New(apperror.InvalidTransition, "rejected posts cannot be edited", nil)
	}
	return nil
}

// dropImage clears the image reference of a post whose image was deleted
// during a failed replace, so the record never points at a missing file.
func (m *Manager) dropImage(ctx context.Context, post *model.Post, store *draft.Store) {
	in := model.PostInput{
		AuthorID:         post.AuthorID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		URL:              post.URL,
		Content:          post.Content,
		AltName:          post.AltName,
	}
	if err := m.repo.UpdatePost(ctx, post.ID, in); err != nil {
		workflowLogger.Error().Err(err).Str("post_id", string(post.ID)).Msg("Post references a removed image")
	}
	if err := store.Save(draft.Fields{draft.KeyMainPicture: ""}); err != nil {
		workflowLogger.Warn().Err(err).Msg("Failed to clear draft picture")
	}
	m.notifyChanged(post.ID)
}

// Reject flags post as rejected on behalf of actor. Authors cannot reject
// their own posts and rejection is terminal.
func (m *Manager) Reject(ctx context.Context, actor model.Actor, post *model.Post) error {
	if actor.UserID == "" {
		return forbidden("sign in to reject posts")
	}
	if actor.IsAuthor() && actor.AuthorID == post.AuthorID {
		return forbidden("authors cannot reject their own posts")
	}
	if post.IsRejected {
		return apperror.New(apperror.InvalidTransition, "post is already rejected", nil)
	}

	if err := m.repo.RejectPost(ctx, post.ID, actor.UserID); err != nil {
		return err
	}
	post.IsRejected = true
	post.RejectedBy = actor.UserID

	m.notifyChanged(post.ID)
	workflowLogger.Info().Str("post_id", string(post.ID)).Str("rejected_by", string(actor.UserID)).Msg("Post rejected")
	return nil
}

// Delete removes post and its image. Image cleanup failures are logged and do
// not block removal of the record.
func (m *Manager) Delete(ctx context.Context, actor model.Actor, post *model.Post) error {
	if !actor.IsAuthor() || actor.AuthorID != post.AuthorID {
		return forbidden("only the author can delete this post")
	}

	if err := m.assets.Detach(ctx, post.AuthorID, post.ID, post.ImageURL); err != nil {
		workflowLogger.Warn().Err(err).
			Str("author_id", string(post.AuthorID)).
			Str("post_id", string(post.ID)).
			Str("asset", post.ImageURL).
			Msg("Orphaned asset left behind")
	}

	if err := m.repo.DeletePost(ctx, post.ID); err != nil {
		return err
	}

	m.notifyChanged(post.ID)
	workflowLogger.Info().Str("post_id", string(post.ID)).Msg("Post deleted")
	return nil
}

// BeginEdit loads an existing post into store, replacing any previous draft.
func (m *Manager) BeginEdit(ctx context.Context, actor model.Actor, store *draft.Store, id model.PostID) (*model.Post, error) {
	post, err := m.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAuthor() || post.AuthorID != actor.AuthorID {
		return nil, forbidden("only the author can edit this post")
	}
	if err := editable(post); err != nil {
		return nil, err
	}

	if err := store.Clear(); err != nil {
		return nil, apperror.New(apperror.Internal, "failed to reset draft", err)
	}
	err = store.Save(draft.EncodePost(draft.PostDraft{
		PostID:           post.ID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		URL:              post.URL,
		Content:          post.Content,
		AltName:          post.AltName,
		MainPicture:      post.ImageURL,
		EditMode:         true,
	}))
	if err != nil {
		return nil, apperror.New(apperror.Internal, "failed to save draft", err)
	}
	return post, nil
}

// Reset discards the post draft.
func (m *Manager) Reset(store *draft.Store) error {
	return store.Clear()
}

// ResetTranslation discards the translation draft.
func (m *Manager) ResetTranslation(store *draft.Store) error {
	return store.Clear()
}

// Post fetches a committed post.
func (m *Manager) Post(ctx context.Context, id model.PostID) (*model.Post, error) {
	return m.repo.GetPost(ctx, id)
}
