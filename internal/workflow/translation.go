package workflow

import (
	"context"
	"strconv"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/model"
)

func canTranslate(actor model.Actor, post *model.Post) error {
	if !actor.IsTranslator() {
		return forbidden("only translators can translate posts")
	}
	if post != nil && post.IsTranslated && post.TranslatorID != "" && post.TranslatorID != actor.TranslatorID {
		return forbidden("post is assigned to another translator")
	}
	return nil
}

// BeginTranslation selects the post to translate and returns it as reference
// text. Selecting a different post discards the previous translation draft.
// Re-editing an existing translation prefills the draft with it.
func (m *Manager) BeginTranslation(ctx context.Context, actor model.Actor, store *draft.Store, id model.PostID) (*model.Post, error) {
	if err := canTranslate(actor, nil); err != nil {
		return nil, err
	}
	post, err := m.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canTranslate(actor, post); err != nil {
		return nil, err
	}

	current := draft.DecodeTranslation(store.Load())
	if current.PostID == id {
		return post, nil
	}

	if err := store.Clear(); err != nil {
		return nil, apperror.New(apperror.Internal, "failed to reset draft", err)
	}
	fields := draft.Fields{
		draft.KeyTranslatePostID:   string(id),
		draft.KeyTranslateEditMode: strconv.FormatBool(post.IsTranslated),
	}
	if post.IsTranslated {
		fields = draft.EncodeTranslation(draft.TranslationDraft{
			PostID:           id,
			Title:            post.TranslatedTitle,
			ShortDescription: post.TranslatedShortDescription,
			Content:          post.TranslatedContent,
			EditMode:         true,
		})
	}
	if err := store.Save(fields); err != nil {
		return nil, apperror.New(apperror.Internal, "failed to save draft", err)
	}
	return post, nil
}

// SubmitTranslation commits the translation draft. All three translated
// fields must be present; partial translations are never sent.
func (m *Manager) SubmitTranslation(ctx context.Context, actor model.Actor, store *draft.Store) error {
	if err := canTranslate(actor, nil); err != nil {
		return err
	}

	d := trimTranslation(draft.DecodeTranslation(store.Load()))
	if d.PostID == "" {
		return apperror.New(apperror.Validation, "no post selected for translation", nil)
	}
	if err := validateTranslation(d); err != nil {
		return err
	}

	post, err := m.repo.GetPost(ctx, d.PostID)
	if err != nil {
		return err
	}
	if err := canTranslate(actor, post); err != nil {
		return err
	}

	in := model.TranslationInput{
		TranslatedTitle:            d.Title,
		TranslatedShortDescription: d.ShortDescription,
		TranslatedContent:          d.Content,
		TranslatorID:               actor.TranslatorID,
		IsTranslated:               true,
	}
	if err := m.repo.AddTranslation(ctx, d.PostID, in); err != nil {
		return err
	}

	clearDraft(store, d.PostID)
	m.notifyChanged(d.PostID)
	workflowLogger.Info().
		Str("post_id", string(d.PostID)).
		Str("translator_id", string(actor.TranslatorID)).
		Msg("Translation submitted")
	return nil
}
