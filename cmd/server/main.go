package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/bootstrap"
	"github.com/nexuscrm/builder/internal/config"
	"github.com/nexuscrm/builder/internal/interfaces/rest"
	"github.com/nexuscrm/builder/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, closer, err := bootstrap.OpenRepository(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open schema storage", zap.String("driver", cfg.Storage), zap.Error(err))
	}
	defer closer.Close()

	store, err := services.NewSchemaStore(context.Background(), repo,
		services.WithLogger(logger),
		services.WithAutoSave(cfg.AutoSave),
	)
	if err != nil {
		logger.Fatal("Failed to load schema", zap.Error(err))
	}
	logger.Info("Schema loaded",
		zap.Int("version", store.Version()),
		zap.Int("objects", len(store.ListObjects())),
		zap.Bool("autoSave", cfg.AutoSave),
	)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(rest.NewSchemaHandler(store), logger)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("Schema builder API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
