package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"waypoint/api/internal/app"
	"waypoint/api/internal/config"
	"waypoint/api/internal/images"
	"waypoint/api/internal/search"
	"waypoint/api/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.Load())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openImageStore picks MinIO when an endpoint is configured and Redis
// otherwise. A nil store disables the image endpoints.
func openImageStore(ctx context.Context, cfg config.Config) (images.Store, func()) {
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		log.Printf("Using MinIO at %s for image storage", cfg.MinioEndpoint)
		minioStore, err := images.NewMinioStore(ctx, images.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Printf("WARNING: minio unavailable, image endpoints disabled: %v", err)
			return nil, func() {}
		}
		return minioStore, func() {}
	}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for image storage")
		redisStore, err := images.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: redis unavailable, image endpoints disabled: %v", err)
			return nil, func() {}
		}
		return redisStore, func() { _ = redisStore.Close() }
	}
	log.Printf("WARNING: no image storage configured")
	return nil, func() {}
}

func serve(cfg config.Config) error {
	defer setupLogging(cfg).Close()
	ctx := context.Background()

	database, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer database.Close()

	migrations, err := migrationsFS(cfg)
	if err != nil {
		return err
	}
	if err := store.ApplyMigrations(ctx, database, migrations); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	dataStore := store.NewPostgresStore(database)

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewPg(database))
	go searchService.ReindexAllFromPG(ctx)

	imageStore, closeImages := openImageStore(ctx, cfg)
	defer closeImages()

	service := app.New(cfg, dataStore, imageStore, searchService)
	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Waypoint API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	return nil
}
