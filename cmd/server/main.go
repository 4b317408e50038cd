package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SensanoJM/dcompc-cms/internal/comparison"
	"github.com/SensanoJM/dcompc-cms/internal/config"
	"github.com/SensanoJM/dcompc-cms/internal/db"
	"github.com/SensanoJM/dcompc-cms/internal/export"
	"github.com/SensanoJM/dcompc-cms/internal/importer"
	"github.com/SensanoJM/dcompc-cms/internal/middleware"
	"github.com/SensanoJM/dcompc-cms/internal/repository"
	"github.com/SensanoJM/dcompc-cms/pkg/logger"

	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatal(ctx, "failed to run migrations", "error", err)
	}

	clientRepo := repository.NewClientRepository(conn.Pool)
	snapshotRepo := repository.NewSnapshotRepository(conn.Pool)
	importErrorRepo := repository.NewImportErrorRepository(conn.Pool)

	importService := importer.NewService(clientRepo, snapshotRepo, importErrorRepo, log)
	comparisonService := comparison.NewService(snapshotRepo, log)
	exportService := export.NewService(clientRepo, snapshotRepo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	logging := middleware.Logging(log)

	mux := http.NewServeMux()
	mux.Handle("/imports", importer.NewHTTPHandler(importService))
	mux.Handle("/comparisons", comparison.NewHTTPHandler(comparisonService))
	mux.Handle("/exports/snapshots", export.NewHTTPHandler(exportService))

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsHandler.Handler(logging(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info(ctx, "starting server", "addr", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(ctx, "failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(ctx, "server forced to shutdown", "error", err)
	}

	log.Info(ctx, "server exited")
}
