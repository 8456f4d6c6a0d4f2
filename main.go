package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/cache"
	"github.com/mohammadDV/new-mvc-framework/config"
	"github.com/mohammadDV/new-mvc-framework/database"
	handler "github.com/mohammadDV/new-mvc-framework/handlers"
	"github.com/mohammadDV/new-mvc-framework/middleware"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/mohammadDV/new-mvc-framework/server"
	"github.com/mohammadDV/new-mvc-framework/session"
	"github.com/mohammadDV/new-mvc-framework/upload"
	"github.com/mohammadDV/new-mvc-framework/validation"
	"github.com/redis/go-redis/v9"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := middleware.ConfigureLogger(cfg.IsProduction(), cfg.Debug, cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("closing the database connection", "error", err)
		}
	}()

	if !cfg.IsProduction() {
		if err := database.MigrateModels(db, &models.User{}, &models.Post{}); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var rdb *redis.Client
	var sessionStorage *cache.Storage
	if cfg.RedisURL != "" {
		rdb, err = cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessionStorage = cache.NewStorage(rdb, "session:")
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
		slog.Info("redis connected")
	}

	var store upload.Store
	switch cfg.ImageStorage {
	case "gcs":
		gcs, err := upload.NewGCSStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			return err
		}
		defer gcs.Close()
		store = gcs
	default:
		store = upload.NewLocalStore(cfg.PublicDir)
	}

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AppTitle, cfg.BaseURL, tokenTTL)

	h := handler.New(handler.Deps{
		Users:         users,
		Posts:         posts,
		Validator:     validation.New(repository.NewLookup(db)),
		Uploader:      upload.NewImageUploader(store),
		Tokens:        tokens,
		Checks:        checks,
		AppTitle:      cfg.AppTitle,
		PerPage:       cfg.PerPage,
		SecureCookies: cfg.IsProduction(),
	})

	// a nil *cache.Storage must not reach the session store as a non-nil interface
	var sessions *session.Manager
	if sessionStorage != nil {
		sessions = session.NewManager(sessionStorage, cfg.SessionLifetime, cfg.IsProduction())
	} else {
		sessions = session.NewManager(nil, cfg.SessionLifetime, cfg.IsProduction())
	}

	srv, err := server.New(cfg, server.Deps{
		Handler:  h,
		Tokens:   tokens,
		Sessions: sessions,
		Redis:    rdb,
	})
	if err != nil {
		return err
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
	return srv.Listen()
}
