// Package api serves the JSON endpoints used by the editor UI.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/routes"
	"github.com/doctorazi/blogdesk/internal/workflow"
	"github.com/rs/zerolog"
)

var apiLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	apiLogger = l
}

type Handler struct {
	mgr      *workflow.Manager
	sessions draft.Sessions

	defaultLocale model.Locale
}

func NewHandler(mgr *workflow.Manager, sessions draft.Sessions, defaultLocale model.Locale) *Handler {
	return &Handler{
		mgr:           mgr,
		sessions:      sessions,
		defaultLocale: defaultLocale,
	}
}

// Register mounts the API on mux. Every route goes through requireUser.
func (h *Handler) Register(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireUser(fn))
	}

	handle(routes.APIMe, h.me)

	handle(routes.APIDraftGet, h.getDraft)
	handle(routes.APIDraftSave, h.savePostDraft)
	handle(routes.APIDraftReset, h.resetPostDraft)
	handle(routes.APITranslationDraftSave, h.saveTranslationDraft)
	handle(routes.APITranslationDraftReset, h.resetTranslationDraft)

	handle(routes.APIPostsList, h.listPosts)
	handle(routes.APIPostsSubmit, h.submitPost)
	handle(routes.APIPostDelete, h.deletePost)
	handle(routes.APIPostEdit, h.beginEdit)
	handle(routes.APIPostReject, h.rejectPost)
	handle(routes.APIPostTranslate, h.beginTranslation)
	handle(routes.APITranslationsSubmit, h.submitTranslation)
}

type ErrorResponse struct {
	Error        string `json:"error"`
	Retryable    bool   `json:"retryable"`
	ImageRemoved bool   `json:"imageRemoved,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		apiLogger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		apiLogger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")
	} else {
		apiLogger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}

	writeJSON(w, ErrorResponse{
		Error:        apperror.Message(err),
		Retryable:    apperror.Retryable(err),
		ImageRemoved: errors.Is(err, asset.ErrImageRemoved),
	}, status)
}

func (h *Handler) locale(r *http.Request) model.Locale {
	if l, ok := model.ParseLocale(r.URL.Query().Get("locale")); ok {
		return l
	}
	return h.defaultLocale
}

func (h *Handler) actor(r *http.Request) (model.Actor, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return model.Actor{}, apperror.New(apperror.Forbidden, config.ErrUnauthorized, nil)
	}
	return h.mgr.ResolveActor(r.Context(), userID, h.locale(r))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, struct {
		UserID       model.UserID       `json:"userId"`
		AuthorID     model.AuthorID     `json:"authorId,omitempty"`
		TranslatorID model.TranslatorID `json:"translatorId,omitempty"`
		Locale       model.Locale       `json:"locale"`
	}{actor.UserID, actor.AuthorID, actor.TranslatorID, actor.Locale}, http.StatusOK)
}
