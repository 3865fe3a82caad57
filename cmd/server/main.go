package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/api/rest"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/cache"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/eventbroker"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/geocoding"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/handler/http"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/adapters/repository/postgres"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/config"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.Env == "local")
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo ports.SnapshotRepository
	if cfg.Postgres.Enabled() {
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			lg.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			lg.Fatal("failed to reach database", zap.Error(err))
		}
		repo = postgres.NewPostSnapshotRepository(db)
	}

	var geocodeCache ports.GeocodeCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Warn("redis unavailable, geocode cache disabled", zap.Error(err))
		} else {
			geocodeCache = cache.NewGeocodeCache(rdb, cfg.Geocoder.CacheTTL)
		}
	}

	signals := services.NewSignals()
	notifiers := services.Notifiers{signals}
	if cfg.Nats.URL != "" {
		nc, err := nats.Connect(cfg.Nats.URL, nats.Name("engage-server"))
		if err != nil {
			lg.Warn("nats unavailable, outcomes stay local", zap.Error(err))
		} else {
			defer nc.Drain()
			notifiers = append(notifiers, eventbroker.NewNatsPublisher(nc, cfg.Nats.SubjectPrefix, lg))
		}
	}

	clock := services.SystemClock{}
	controller := services.NewController(notifiers, clock, lg)
	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, lg)

	session := services.NewSession(client, repo, controller, clock, lg)
	defer session.Close()

	geocoder := geocoding.NewHTTPGeocoder(cfg.Geocoder.URL, cfg.API.Token, cfg.API.Timeout)
	resolver := services.NewLocationResolver(geocoder, geocodeCache, cfg.Geocoder.Debounce, lg)
	defer resolver.Close()
	discovery := services.NewDiscoveryService(client, resolver)

	handler := http.NewHandler(http.Handlers{
		Posts:    http.NewPostHandler(session),
		Users:    http.NewUserHandler(session),
		Polls:    http.NewPollHandler(session),
		Comments: http.NewCommentHandler(session, cfg.Comments.InlinePageSize, cfg.Comments.DetailPageSize),
		Search:   http.NewSearchHandler(discovery),
		Signals:  http.NewSignalHandler(signals),
	}, cfg.Server.AllowedOrigins)
	server := &stdhttp.Server{Addr: cfg.Server.Addr, Handler: handler}

	if err := serve(ctx, server, 30*time.Second, lg); err != nil {
		lg.Error("server stopped", zap.Error(err))
	}
}

// serve runs server until ctx is done or listening fails, then shuts it down
// and returns the listen error, if any.
func serve(ctx context.Context, server *stdhttp.Server, grace time.Duration, lg *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		lg.Info("gracefully shutting down")
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if serr := server.Shutdown(shutdownCtx); serr != nil {
		lg.Error("shutdown failed", zap.Error(serr))
	}
	return err
}
