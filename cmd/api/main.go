// Package main is the entry point for the TripMapper API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/tripmapper/backend/internal/blob"
	"github.com/tripmapper/backend/internal/config"
	"github.com/tripmapper/backend/internal/geo"
	"github.com/tripmapper/backend/internal/handler"
	"github.com/tripmapper/backend/internal/middleware"
	"github.com/tripmapper/backend/internal/repo"
	"github.com/tripmapper/backend/internal/service"
	"github.com/tripmapper/backend/migrations"
)

// maxRequestBody limits JSON request bodies. Photo uploads go through
// multipart parsing with their own limits, so this stays small.
const maxRequestBody = 32 << 20 // 32 MiB, multipart uploads included

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a local-development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The database may come up after us (compose, fresh deploys), so the
	// first ping retries with backoff before giving up.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 30*time.Second)
	err = retry.Do(pingCtx, retry.WithMaxRetries(5, retry.NewFibonacci(time.Second)), func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	cancelPing()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs a database/sql handle; the pgx stdlib driver shares the DSN.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations up to date")

	// --- Adapters ---------------------------------------------------------
	blobs := blob.NewS3Store(blob.Config{
		Endpoint: cfg.BlobEndpoint,
		Region:   cfg.BlobRegion,
		Bucket:   cfg.BlobBucket,
		KeyID:    cfg.BlobKeyID,
		AppKey:   cfg.BlobAppKey,
	})

	var reverser geo.Reverser
	if cfg.NominatimURL != "" {
		reverser = geo.NewNominatimClient(cfg.NominatimURL, cfg.NominatimUserAgent)
	}

	// --- Services ---------------------------------------------------------
	uow := repo.NewUnitOfWork(pool)
	access := service.NewAccessService()
	photos := service.NewPhotoService(uow, access, blobs)
	trips := service.NewTripService(uow, photos, access)
	pins := service.NewPinService(uow, reverser, logger)
	categories := service.NewCategoryService(uow)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID first so every later log line carries the
	// id; Recoverer last so panics in handlers are caught.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handler.Health)

	srv := handler.NewServer(trips, pins, photos, categories)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentity())
		r.Mount("/", srv.Routes())
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending embedded migrations.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
