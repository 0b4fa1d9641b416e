package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartcircular/api/config"
	"github.com/smartcircular/api/internal/db"
	api "github.com/smartcircular/api/internal/http/rest"
	"github.com/smartcircular/api/internal/store"
	"github.com/smartcircular/api/util/storage"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalln("failed to initialise logger", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var dataStore store.Store
	if cfg.Dsn == "" {
		logger.Warn("no DSN configured, using in-memory store; data will not survive restarts")
		dataStore = store.NewMemory()
	} else {
		database, err := db.New(cfg.Dsn)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		dataStore, err = store.NewPostgres(database)
		if err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	var uploads *storage.Cloudinary
	if cfg.CloudinaryCloudName != "" {
		uploads, err = storage.NewCloudinary(cfg)
		if err != nil {
			logger.Fatal("failed to initialise media storage", zap.Error(err))
		}
	} else {
		logger.Warn("cloudinary not configured, image uploads are disabled")
	}

	a := &api.API{
		Config:  cfg,
		Logger:  logger,
		Store:   dataStore,
		Uploads: uploads,
	}

	go func() {
		logger.Info("server running", zap.Int("port", cfg.Port))
		if serveErr := a.Serve(); serveErr != nil {
			logger.Fatal("server stopped", zap.Error(serveErr))
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	logger.Info("shutdown requested, draining connections", zap.Duration("grace", allowConnectionsAfterShutdown))
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	if err := a.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	dataStore.Close()
	logger.Info("server stopped")
}
