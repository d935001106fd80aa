package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/doctorazi/blogdesk/internal/api"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/db"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/logger"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/render"
	"github.com/doctorazi/blogdesk/internal/repository"
	"github.com/doctorazi/blogdesk/internal/routes"
	"github.com/doctorazi/blogdesk/internal/sse"
	"github.com/doctorazi/blogdesk/internal/workflow"
)

//go:embed templates/*
var content embed.FS

var mainLogger zerolog.Logger

func setLoggers(l zerolog.Logger) {
	mainLogger = l
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	draft.SetLogger(l.With().Str("component", "draft").Logger())
	asset.SetLogger(l.With().Str("component", "asset").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	workflow.SetLogger(l.With().Str("component", "workflow").Logger())
	auth.SetLogger(l.With().Str("component", "auth").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
	api.SetLogger(l.With().Str("component", "api").Logger())
	sse.SetLogger(l.With().Str("component", "sse").Logger())
}

func main() {
	envErr := godotenv.Load()

	path := os.Getenv(config.EnvConfigPath)
	if path == "" {
		path = config.DefaultConfigPath
	}

	// Config errors are reported with a bootstrap logger.
	setLoggers(logger.New("info", "console"))
	if envErr != nil {
		mainLogger.Debug().Err(envErr).Msg("No .env file loaded")
	}
	if err := config.LoadConfig(path); err != nil {
		mainLogger.Fatal().Err(err).Str("path", path).Msg("Failed to load config")
	}
	cfg := config.AppConfig
	setLoggers(logger.New(cfg.Logging.Level, cfg.Logging.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeDrafts, err := draft.NewSessions(cfg.Drafts)
	if err != nil {
		mainLogger.Fatal().Err(err).Str("driver", cfg.Drafts.Driver).Msg("Failed to open draft store")
	}
	defer closeDrafts()

	backend, err := asset.NewBackend(ctx, cfg)
	if err != nil {
		mainLogger.Fatal().Err(err).Msgf(config.ErrCreateAssetBackendFmt, err)
	}

	provider, err := auth.NewProvider(cfg.Auth, cfg.Secrets)
	if err != nil {
		mainLogger.Fatal().Err(err).Msgf(config.ErrCreateProviderFmt, err)
	}

	repo := repository.NewRESTRepository(cfg.Backend.BaseURL, cfg.Backend.SessionCookie, cfg.Backend.Timeout)
	hub := sse.NewHub()
	mgr := workflow.NewManager(repo, repo, asset.NewReconciler(backend), workflow.WithNotifier(hub.NotifyChanged))

	a, err := newApp(cfg, repo, mgr, hub, sessions)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Failed to parse templates")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.handler(auth.RequireUser(provider, cfg.Backend.SessionCookie)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mainLogger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	mainLogger.Info().Str("addr", srv.Addr).Str("drafts", cfg.Drafts.Driver).Str("assets", cfg.Assets.Driver).Msg("Starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLogger.Fatal().Err(err).Msg("Server failed")
	}
}

type app struct {
	cfg    *config.Config
	people repository.Directory
	mgr    *workflow.Manager
	hub    *sse.Hub
	api    *api.Handler
	tmpl   *template.Template
}

func newApp(cfg *config.Config, people repository.Directory, mgr *workflow.Manager, hub *sse.Hub, sessions draft.Sessions) (*app, error) {
	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/*.html")
	if err != nil {
		return nil, err
	}

	locale, _ := model.ParseLocale(cfg.Site.DefaultLocale)
	return &app{
		cfg:    cfg,
		people: people,
		mgr:    mgr,
		hub:    hub,
		api:    api.NewHandler(mgr, sessions, locale),
		tmpl:   tmpl,
	}, nil
}

func (a *app) handler(requireUser func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.Write([]byte("User-agent: *\nDisallow: /api/\n"))
	})
	mux.HandleFunc(routes.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, config.CTypeJSON)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle(routes.SSEPath, a.hub)
	mux.HandleFunc(routes.PostPage, a.servePost)
	mux.HandleFunc(routes.PostPageBare, a.servePost)

	a.api.Register(mux, requireUser)

	return secureHeaders(mux)
}

func secureHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		h.ServeHTTP(w, r)
	})
}
