package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/workflow"
)

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	rejected, _ := strconv.ParseBool(q.Get("rejected"))
	mine, _ := strconv.ParseBool(q.Get("mine"))

	posts, err := h.mgr.ListPosts(r.Context(), actor, workflow.ListOptions{
		Rejected: rejected,
		Mine:     mine,
		Query:    q.Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, posts, http.StatusOK)
}

// imageFromRequest returns the uploaded image of a multipart submit, or nil
// when the request carries none. Non-multipart requests are allowed.
func imageFromRequest(r *http.Request) (*asset.File, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, apperror.New(apperror.Validation, "invalid upload", err)
	}

	file, header, err := r.FormFile(config.FormImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperror.New(apperror.Validation, "invalid upload", err)
	}

	return &asset.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get(config.HCType),
		Body:        file,
	}, func() { file.Close() }, nil
}

func (h *Handler) submitPost(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	image, closeImage, err := imageFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeImage()

	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	isNew := s.post.Load()[draft.KeyPostID] == ""
	id, err := h.mgr.Submit(r.Context(), actor, s.post, image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeJSON(w, map[string]model.PostID{"post_id": id}, status)
}

func (h *Handler) withPost(w http.ResponseWriter, r *http.Request, fn func(model.Actor, *model.Post) error) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	post, err := h.mgr.Post(r.Context(), model.PostID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := fn(actor, post); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rejectPost(w http.ResponseWriter, r *http.Request) {
	h.withPost(w, r, func(actor model.Actor, post *model.Post) error {
		return h.mgr.Reject(r.Context(), actor, post)
	})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	h.withPost(w, r, func(actor model.Actor, post *model.Post) error {
		return h.mgr.Delete(r.Context(), actor, post)
	})
}

func (h *Handler) beginEdit(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.mgr.BeginEdit(r.Context(), actor, s.post, model.PostID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

func (h *Handler) beginTranslation(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.mgr.BeginTranslation(r.Context(), actor, s.translation, model.PostID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

func (h *Handler) submitTranslation(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stores(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.mgr.SubmitTranslation(r.Context(), actor, s.translation); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
