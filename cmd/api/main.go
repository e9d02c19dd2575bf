// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the idolbase HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (.env is autoloaded).
//  3. Connect to MongoDB and ensure indexes.
//  4. Connect to PostgreSQL and run migrations.
//  5. Connect to Redis and the object store.
//  6. Wire domain services and HTTP handlers.
//  7. Start the HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/taibuivan/idolbase/internal/api"
	"github.com/taibuivan/idolbase/internal/core/asset"
	"github.com/taibuivan/idolbase/internal/core/engagement"
	"github.com/taibuivan/idolbase/internal/core/gallery"
	"github.com/taibuivan/idolbase/internal/core/genre"
	"github.com/taibuivan/idolbase/internal/core/idol"
	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/core/photo"
	"github.com/taibuivan/idolbase/internal/core/video"
	"github.com/taibuivan/idolbase/internal/platform/config"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/migration"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/objectstore"
	pgstore "github.com/taibuivan/idolbase/internal/platform/postgres"
	redisstore "github.com/taibuivan/idolbase/internal/platform/redis"
	"github.com/taibuivan/idolbase/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(false)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")
	if cfg.Debug {
		log = newLogger(true)
		log.Debug("debug_logging_enabled")
	}
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	mongoClient, db, err := mongodb.Connect(startupCtx, cfg.MongoURI, cfg.MongoDatabase, log)
	must(log, err, "connect to mongodb")
	defer func() {
		if cerr := mongoClient.Disconnect(context.Background()); cerr != nil {
			log.Error("mongodb_disconnect_failed", slog.Any("error", cerr))
		}
	}()
	must(log, mongodb.EnsureIndexes(startupCtx, db, log), "ensure indexes")

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()
	must(log, migration.RunUp(cfg.DatabaseURL, migration.Source(cfg.MigrationPath), log), "run migrations")

	// ── 5. Redis + Object Storage ─────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	blobs, err := objectstore.NewS3Store(startupCtx, objectstore.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		UsePathStyle:    cfg.S3UsePathStyle,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	must(log, err, "initialize object store")

	// ── 6. Session Verification ───────────────────────────────────────────
	tokens, err := sec.NewTokenService("", cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token verifier")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	counters := integrity.NewMongoStore(db)
	maintainer := integrity.NewMaintainer(counters, log)
	assets := asset.NewService(blobs, asset.NewPostgresQueue(pool), log)

	genreRepository := genre.NewMongoRepository(db)
	reconciler := integrity.NewReconciler(counters, genreRepository, log)

	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) }},
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,

		Idol:    idol.NewHandler(idol.NewService(idol.NewMongoRepository(db), maintainer, assets, log)),
		Genre:   genre.NewHandler(genre.NewService(genreRepository, maintainer, log)),
		Gallery: gallery.NewHandler(gallery.NewService(gallery.NewMongoRepository(db), maintainer, assets, log)),
		Photo:   photo.NewHandler(photo.NewService(photo.NewMongoRepository(db), maintainer, assets, log)),
		Video:   video.NewHandler(video.NewService(video.NewMongoRepository(db), maintainer, assets, log)),

		Upload:    asset.NewHandler(assets, cfg.UploadMaxBytes),
		View:      engagement.NewHandler(engagement.NewService(counters, engagement.NewRedisDeduper(rdb), cfg.ViewDedupeTTL)),
		Integrity: integrity.NewHandler(reconciler, redisstore.NewLocker(rdb)),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()
	server := api.NewServer(serverCtx, cfg, log, tokens, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and exits if err is non-nil. It is only
// used during startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure", slog.String("step", step), slog.Any("error", err))
		os.Exit(1)
	}
}
