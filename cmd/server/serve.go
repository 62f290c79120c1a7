package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"selfie-filter-backend/internal/compositor"
	"selfie-filter-backend/internal/config"
	"selfie-filter-backend/internal/database"
	"selfie-filter-backend/internal/filters"
	"selfie-filter-backend/internal/handlers"
	"selfie-filter-backend/internal/services"
	"selfie-filter-backend/internal/supabase"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Example: `  # Start on PORT (default 3000)
  selfie-filter-backend serve

  # Start on a custom port
  selfie-filter-backend serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

func serve(ctx context.Context, port string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := filters.Load(cfg.FilterConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load filter catalog: %w", err)
	}
	slog.Info("Filter catalog loaded", "version", catalog.Version(), "filters", catalog.IDs())

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if _, err := os.Stat(cfg.AssetsDir); err != nil {
		slog.Warn("Assets directory not readable, uploads will be stored without filters", "dir", cfg.AssetsDir, "error", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var mirror services.Mirror
	if cfg.MirrorEnabled() {
		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return fmt.Errorf("failed to initialize storage client: %w", err)
		}
		mirror = storageClient
		slog.Info("Mirroring photos to Supabase Storage", "bucket", cfg.SupabaseStorageBucket)
	}

	comp := compositor.New(catalog, cfg.AssetsDir,
		compositor.WithJPEGQuality(cfg.JPEGQuality),
		compositor.WithLogger(logger),
	)

	service := services.NewPhotoService(store, comp, services.PhotoServiceConfig{
		UploadDir:   cfg.UploadDir,
		URLPrefix:   cfg.UploadURLPrefix,
		DeleteFiles: cfg.DeleteFiles,
		Mirror:      mirror,
		Logger:      logger,
	})

	router := handlers.NewRouter(handlers.RouterConfig{
		Service:         service,
		Catalog:         catalog,
		Logger:          logger,
		UploadDir:       cfg.UploadDir,
		UploadURLPrefix: cfg.UploadURLPrefix,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		MaxJSONBytes:    cfg.MaxJSONBytes,
	})

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

// openStore connects to Postgres and applies migrations, or falls back to
// memory when DATABASE_URL is unset.
func openStore(ctx context.Context, cfg *config.Config) (database.PhotoStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, photos are kept in memory and lost on restart")
		return database.NewMemoryStore(), nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrator(db).Run(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Migrations completed", "applied", len(applied))

	return database.NewPostgresStore(db), nil
}
