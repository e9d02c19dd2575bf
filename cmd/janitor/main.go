// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command janitor runs maintenance jobs outside the API process.
//
// # Usage
//
//	janitor drain [-batch 100]        retry queued blob deletions
//	janitor recount                   recompute counters and genre subGenres
//	janitor issue-token -user ID ...  sign an admin session token
//
// drain and recount hold a Redis lock so only one instance runs each job.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/taibuivan/idolbase/internal/core/asset"
	"github.com/taibuivan/idolbase/internal/core/genre"
	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/config"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/objectstore"
	pgstore "github.com/taibuivan/idolbase/internal/platform/postgres"
	redisstore "github.com/taibuivan/idolbase/internal/platform/redis"
	"github.com/taibuivan/idolbase/internal/platform/sec"
)

// drainLockTTL bounds how long a crashed drain can block the next run.
const drainLockTTL = 30 * time.Minute

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "idolbase-janitor"))
	slog.SetDefault(log)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup_failure", slog.String("step", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "drain":
		err = runDrain(ctx, cfg, log, args)
	case "recount":
		err = runRecount(ctx, cfg, log)
	case "issue-token":
		err = runIssueToken(cfg, args)
	default:
		usage()
		os.Exit(2)
	}

	if errors.Is(err, redisstore.ErrLocked) {
		log.Info("job_skipped_locked", slog.String("job", command))
		return
	}
	if err != nil {
		log.Error("job_failed", slog.String("job", command), slog.Any("error", err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: janitor <drain|recount|issue-token> [flags]")
}

func runDrain(ctx context.Context, cfg *config.Config, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("drain", flag.ExitOnError)
	batch := flags.Int("batch", cfg.CleanupBatchSize, "keys per DeleteObjects call")
	_ = flags.Parse(args)

	return withLock(ctx, cfg, log, "asset-drain", drainLockTTL, func(ctx context.Context) error {
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		blobs, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return err
		}

		service := asset.NewService(blobs, asset.NewPostgresQueue(pool), log)
		if _, err := service.Drain(ctx, *batch); err != nil {
			return err
		}
		pending, err := service.Pending(ctx)
		if err != nil {
			return err
		}
		log.Info("asset_cleanup_pending", slog.Int64("pending", pending))
		return nil
	})
}

func runRecount(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	return withLock(ctx, cfg, log, integrity.RecountLock, integrity.RecountLockTTL, func(ctx context.Context) error {
		client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		reconciler := integrity.NewReconciler(integrity.NewMongoStore(db), genre.NewMongoRepository(db), log)
		report, err := reconciler.Run(ctx)
		if err != nil {
			return err
		}
		log.Info("recount_finished", slog.Int64("repaired", report.Repaired()))
		return nil
	})
}

func runIssueToken(cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("issue-token", flag.ExitOnError)
	user := flags.String("user", "", "user id (required)")
	name := flags.String("name", "", "display name")
	role := flags.String("role", string(sec.RoleAdmin), "session role")
	ttl := flags.Duration("ttl", 12*time.Hour, "token lifetime")
	_ = flags.Parse(args)

	if *user == "" {
		return errors.New("issue-token: -user is required")
	}
	if cfg.JWTPrivKeyPath == "" {
		return errors.New("issue-token: JWT_PRIVATE_KEY_PATH is not set")
	}

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return err
	}
	token, err := tokens.GenerateAccessToken(*user, *name, *role, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

// withLock runs job while holding the named Redis lock. The API's admin
// recount takes the same lock.
func withLock(ctx context.Context, cfg *config.Config, log *slog.Logger, name string, ttl time.Duration, job func(context.Context) error) error {
	client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	return redisstore.NewLocker(client).Run(ctx, name, ttl, job)
}
