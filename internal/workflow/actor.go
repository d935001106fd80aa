package workflow

import (
	"context"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/model"
)

type roles struct {
	author     model.AuthorID
	translator model.TranslatorID
}

// ResolveActor maps a signed-in user to their author and translator roles.
// Lookups are memoized per user; a missing role is not an error.
func (m *Manager) ResolveActor(ctx context.Context, userID model.UserID, locale model.Locale) (model.Actor, error) {
	r, err := m.roles.GetOrLoad(userID, func() (roles, error) {
		var r roles

		a, err := m.people.GetAuthorByUser(ctx, userID)
		switch {
		case err == nil:
			r.author = a.AuthorID
		case !apperror.Is(err, apperror.NotFound):
			return r, err
		}

		t, err := m.people.GetTranslatorByUser(ctx, userID)
		switch {
		case err == nil:
			r.translator = t.TranslatorID
		case !apperror.Is(err, apperror.NotFound):
			return r, err
		}
		return r, nil
	})
	if err != nil {
		return model.Actor{}, err
	}

	return model.Actor{
		UserID:       userID,
		AuthorID:     r.author,
		TranslatorID: r.translator,
		Locale:       locale,
	}, nil
}

// ForgetActor drops the memoized roles of a user.
func (m *Manager) ForgetActor(userID model.UserID) {
	m.roles.Delete(userID)
}
