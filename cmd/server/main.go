package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"model-asset-service/internal/adapters/primary/http/handlers"
	"model-asset-service/internal/adapters/primary/http/middleware"
	"model-asset-service/internal/adapters/secondary/blob"
	"model-asset-service/internal/adapters/secondary/memory"
	"model-asset-service/internal/adapters/secondary/postgres"
	"model-asset-service/internal/config"
	ports "model-asset-service/internal/core/ports/output"
	"model-asset-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	var assetRepo ports.ModelAssetRepository
	switch cfg.Database.Driver {
	case "memory":
		assetRepo = memory.NewModelAssetRepository()
		log.Warn("using in-memory record store, data will not survive a restart")
	default:
		pool := openPool(cfg)
		defer pool.Close()
		assetRepo = postgres.NewModelAssetRepository(pool)
	}

	storage, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("init blob storage: %v", err)
	}

	// Core Services (Application Layer)
	assetSvc := services.NewModelAssetService(assetRepo, storage)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(assetSvc, storage)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	h.RegisterRoutes(router.Group("/api"))
	router.GET("/healthz", h.Ready)

	// Blobs are only served locally when the media URL points back at us.
	if strings.HasPrefix(cfg.Storage.MediaURL, "/") {
		h.RegisterMediaRoutes(router, cfg.Storage.MediaURL)
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	})(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPool(cfg *config.Config) *pgxpool.Pool {
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.MigrationURL()); err != nil {
			log.Fatalf("migrate db: %v", err)
		}
		log.Info("database migrations applied")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")
	return pool
}

func openStorage(cfg *config.Config) (ports.BlobStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		s, err := blob.NewS3Storage(&cfg.Storage.S3, cfg.Storage.MediaURL)
		if err != nil {
			return nil, err
		}
		log.WithField("bucket", cfg.Storage.S3.Bucket).Info("S3 blob storage initialized")
		return s, nil
	default:
		s, err := blob.NewLocalStorage(cfg.Storage.LocalRoot, cfg.Storage.MediaURL)
		if err != nil {
			return nil, err
		}
		log.WithField("root", cfg.Storage.LocalRoot).Info("local blob storage initialized")
		return s, nil
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
