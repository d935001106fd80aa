package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/draft"
)

type stores struct {
	post        *draft.Store
	translation *draft.Store
}

// stores opens the draft session named by the draft cookie, starting a new
// session when the cookie is missing or points at a dropped session.
func (h *Handler) stores(w http.ResponseWriter, r *http.Request) (stores, error) {
	if c, err := r.Cookie(config.CookieDraftId); err == nil {
		b, err := h.sessions.Open(draft.SessionID(c.Value))
		if err == nil {
			return newStores(b), nil
		}
		if !errors.Is(err, draft.ErrSessionNotFound) {
			return stores{}, apperror.New(apperror.Internal, config.ErrDraftSession, err)
		}
	}

	id, err := h.sessions.Create()
	if err != nil {
		return stores{}, apperror.New(apperror.Internal, config.ErrDraftSession, err)
	}
	b, err := h.sessions.Open(id)
	if err != nil {
		return stores{}, apperror.New(apperror.Internal, config.ErrDraftSession, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieDraftId,
		Value:    string(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return newStores(b), nil
}

func newStores(b draft.Backend) stores {
	return stores{
		post:        draft.NewPostStore(b),
		translation: draft.NewTranslationStore(b),
	}
}

type draftResponse struct {
	Post        draft.PostDraft        `json:"post"`
	Translation draft.TranslationDraft `json:"translation"`
	Pending     bool                   `json:"pending"`
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, draftResponse{
		Post:        draft.DecodePost(s.post.Load()),
		Translation: draft.DecodeTranslation(s.translation.Load()),
		Pending:     s.post.HasPending() || s.translation.HasPending(),
	}, http.StatusOK)
}

func decodeFields(r *http.Request) (draft.Fields, error) {
	var f draft.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		return nil, apperror.New(apperror.Validation, "invalid draft payload", err)
	}
	return f, nil
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request, pick func(stores) *draft.Store) {
	f, err := decodeFields(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := pick(s).Save(f); err != nil {
		writeError(w, r, apperror.New(apperror.Internal, "failed to save draft", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) savePostDraft(w http.ResponseWriter, r *http.Request) {
	h.saveDraft(w, r, func(s stores) *draft.Store { return s.post })
}

func (h *Handler) saveTranslationDraft(w http.ResponseWriter, r *http.Request) {
	h.saveDraft(w, r, func(s stores) *draft.Store { return s.translation })
}

func (h *Handler) resetPostDraft(w http.ResponseWriter, r *http.Request) {
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.mgr.Reset(s.post); err != nil {
		writeError(w, r, apperror.New(apperror.Internal, "failed to reset draft", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetTranslationDraft(w http.ResponseWriter, r *http.Request) {
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.mgr.ResetTranslation(s.translation); err != nil {
		writeError(w, r, apperror.New(apperror.Internal, "failed to reset draft", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
