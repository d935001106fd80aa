package main

import (
	"context"
	"net/http"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/render"
)

// fullName resolves a user's display name. Lookup failures yield "".
func (a *app) fullName(ctx context.Context, userID model.UserID) string {
	name, err := a.people.FullName(ctx, userID)
	if err != nil {
		if !apperror.Is(err, apperror.NotFound) {
			mainLogger.Warn().Err(err).Str("user_id", string(userID)).Msg("Failed to resolve full name")
		}
		return ""
	}
	return name
}

func (a *app) authorName(ctx context.Context, id model.AuthorID) string {
	author, err := a.people.GetAuthor(ctx, id)
	if err != nil {
		return ""
	}
	return a.fullName(ctx, author.UserID)
}

func (a *app) translatorName(ctx context.Context, id model.TranslatorID) string {
	if id == "" {
		return ""
	}
	t, err := a.people.GetTranslator(ctx, id)
	if err != nil {
		return ""
	}
	return a.fullName(ctx, t.UserID)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request, locale model.Locale) {
	data := model.NewPageData(r, a.cfg.Site.Name, locale)
	data.Title = "Post Not Found"
	data.Description = "The requested blog post could not be found."

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusNotFound)
	if err := a.tmpl.ExecuteTemplate(w, config.TemplateNotFound, data); err != nil {
		mainLogger.Error().Err(err).Msg("Failed to render not found page")
	}
}

func (a *app) servePost(w http.ResponseWriter, r *http.Request) {
	locale, ok := model.ParseLocale(r.PathValue("locale"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	post, err := a.mgr.Post(r.Context(), model.PostID(r.PathValue("id")))
	if apperror.Is(err, apperror.NotFound) {
		a.notFound(w, r, locale)
		return
	}
	if err != nil {
		mainLogger.Error().Err(err).Str("post_id", r.PathValue("id")).Msg("Failed to load post")
		http.Error(w, config.ErrInternalServerError, apperror.HTTPStatus(err))
		return
	}

	view := render.BuildPostView(post,
		a.authorName(r.Context(), post.AuthorID),
		a.translatorName(r.Context(), post.TranslatorID),
		locale, a.cfg.Assets.PublicBaseURL)

	data := struct {
		*model.PageData
		Post render.PostView
	}{
		PageData: model.NewPageData(r, a.cfg.Site.Name, locale),
		Post:     view,
	}
	data.Title = view.Title
	data.Description = view.ShortDescription
	data.SyntaxCSS = render.SyntaxCSS(a.cfg.Site.SyntaxStyle)

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := a.tmpl.ExecuteTemplate(w, config.TemplatePost, data); err != nil {
		mainLogger.Error().Err(err).Str("post_id", string(post.ID)).Msg("Failed to render post")
	}
}
