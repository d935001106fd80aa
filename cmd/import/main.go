package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/logger"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/render"
	"github.com/doctorazi/blogdesk/internal/repository"
	"github.com/doctorazi/blogdesk/internal/util"
	"github.com/doctorazi/blogdesk/internal/workflow"
)

type importer struct {
	mgr      *workflow.Manager
	actor    model.Actor
	style    string
	imageDir string
	log      zerolog.Logger
}

// importFile submits one markdown file as a new post through a throwaway
// draft, the same path an author takes in the editor.
func (im *importer) importFile(ctx context.Context, path string) (model.PostID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	info, body, err := util.SplitFrontMatter(content)
	if err != nil {
		return "", err
	}

	title := info.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	url := info.URL
	if url == "" {
		url = title
	}
	if info.Image == "" {
		return "", errors.New("front matter has no image")
	}

	dir := im.imageDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	img, err := os.Open(filepath.Join(dir, info.Image))
	if err != nil {
		return "", err
	}
	defer img.Close()

	stat, err := img.Stat()
	if err != nil {
		return "", err
	}

	store := draft.NewPostStore(draft.NewMemoryBackend())
	err = store.Save(draft.EncodePost(draft.PostDraft{
		Title:            title,
		ShortDescription: info.Summary(),
		URL:              url,
		Content:          string(render.MarkdownToHTML(body, model.LocaleEN, im.style)),
		AltName:          info.AltName,
	}))
	if err != nil {
		return "", err
	}

	return im.mgr.Submit(ctx, im.actor, store, &asset.File{
		Name: filepath.Base(info.Image),
		Size: stat.Size(),
		Body: img,
	})
}

// importDir imports every .md file directly under dir and returns the number
// of posts created. Failures are logged and skipped.
func (im *importer) importDir(ctx context.Context, dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}
		id, err := im.importFile(ctx, filepath.Join(dir, file.Name()))
		if err != nil {
			im.log.Error().Str("file", file.Name()).Str("reason", apperror.Message(err)).Err(err).Msg("Error importing file")
			continue
		}
		n++
		im.log.Info().Str("file", file.Name()).Str("post_id", string(id)).Msg("Imported post")
	}
	return n, nil
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the config file")
	path := flag.String("path", "", "Path to the directory containing .md files")
	userID := flag.String("user", "", "User id of the author the posts are imported for")
	imageDir := flag.String("image-dir", "", "Directory holding the images named in front matter (defaults to --path)")
	session := flag.String("session", os.Getenv("BLOGDESK_SESSION"), "Backend session token")
	flag.Parse()

	log := logger.New("info", "console")
	if *path == "" || *userID == "" {
		log.Fatal().Msg("Both --path and --user flags are required")
	}

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	cfg := config.AppConfig

	repository.SetLogger(log)
	asset.SetLogger(log)
	workflow.SetLogger(log)

	ctx := context.Background()
	if *session != "" {
		ctx = auth.ContextWithSession(ctx, *session)
	}

	backend, err := asset.NewBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Msgf(config.ErrCreateAssetBackendFmt, err)
	}

	repo := repository.NewRESTRepository(cfg.Backend.BaseURL, cfg.Backend.SessionCookie, cfg.Backend.Timeout)
	mgr := workflow.NewManager(repo, repo, asset.NewReconciler(backend))

	actor, err := mgr.ResolveActor(ctx, model.UserID(*userID), model.LocaleEN)
	if err != nil {
		log.Fatal().Err(err).Msg("Error resolving user")
	}
	if !actor.IsAuthor() {
		log.Fatal().Str("user", *userID).Msg("User is not an author")
	}

	im := &importer{mgr: mgr, actor: actor, style: cfg.Site.SyntaxStyle, imageDir: *imageDir, log: log}
	n, err := im.importDir(ctx, *path)
	if err != nil {
		log.Fatal().Err(err).Str("path", *path).Msg("Error reading directory")
	}
	log.Info().Int("posts", n).Msg("Import complete")
}
