package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/api/rest"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/repository/postgres"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/config"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	concurrency := flag.Int("concurrency", cfg.Sync.Concurrency, "Posts refreshed in parallel")
	timeout := flag.Duration("timeout", cfg.Sync.Timeout, "Upper bound for the whole run")
	flag.Parse()

	lg, err := logger.New(cfg.LogLevel, cfg.Env == "local")
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	if !cfg.Postgres.Enabled() {
		lg.Fatal("snapshot sync needs a database")
	}
	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		lg.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		lg.Fatal("failed to reach database", zap.Error(err))
	}

	repo := postgres.NewPostSnapshotRepository(db)
	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, lg)
	syncService := services.NewSnapshotService(repo, client, *concurrency, lg)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	lg.Info("starting snapshot sync")

	report, err := syncService.RefreshAll(ctx)
	if err != nil {
		lg.Fatal("snapshot sync failed", zap.Error(err))
	}

	for id, ferr := range report.Failed {
		lg.Warn("post not refreshed", zap.String("post", id), zap.Error(ferr))
	}
	lg.Info("snapshot sync completed", zap.Int("refreshed", report.Refreshed), zap.Int("failed", len(report.Failed)))
}
