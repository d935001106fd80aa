package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/db"
	"github.com/doctorazi/blogdesk/internal/draft"
	"github.com/doctorazi/blogdesk/internal/logger"
)

// prune removes draft sessions idle for longer than maxAge from the
// configured draft database.
func prune(ctx context.Context, cfg config.DraftsConfig, maxAge time.Duration) (int64, error) {
	if cfg.Driver != "sqlite" && cfg.Driver != "postgres" {
		return 0, fmt.Errorf("draft driver %q has no database to prune", cfg.Driver)
	}

	sessions, d, err := draft.OpenSQLSessions(cfg)
	if err != nil {
		return 0, err
	}
	defer d.Close()

	return sessions.Prune(ctx, maxAge)
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", config.DefaultConfigPath, "Path to the config file")
	maxAge := flag.Duration("max-age", 0, "Remove drafts idle for longer than this (defaults to drafts.max_age)")
	flag.Parse()

	log := logger.New("info", "console")
	config.SetLogger(log)
	db.SetLogger(log)
	draft.SetLogger(log)

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	cfg := config.AppConfig.Drafts

	age := cfg.MaxAge
	if *maxAge > 0 {
		age = *maxAge
	}

	log.Info().Str("driver", cfg.Driver).Dur("max_age", age).Msg("Starting draft pruning...")
	n, err := prune(context.Background(), cfg, age)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prune drafts")
	}
	log.Info().Int64("sessions", n).Msg("Draft pruning complete.")
}
