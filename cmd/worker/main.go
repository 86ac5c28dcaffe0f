// cmd/worker runs the report consumer pool as its own process.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/pkg/container"
	"bookstore-catalog/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.App.Environment, cfg.Log.Level)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}
	gin.SetMode(gin.ReleaseMode)

	if cfg.Cache.Driver == config.DriverMemory {
		// The API could never read what this process caches.
		log.Fatal().Msg("CACHE_DRIVER=memory cannot be used by a standalone worker")
	}
	if cfg.Storage.Driver == config.DriverMemory {
		// This process would only ever see its own empty catalog.
		log.Fatal().Msg("STORAGE_DRIVER=memory cannot be used by a standalone worker")
	}

	ctx := context.Background()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer c.Cleanup()

	srv := c.NewWorker()

	if err := startServices(ctx, c, srv); err != nil {
		log.Fatal().Err(err).Msg("Startup failed")
	}

	waitForShutdown()
	srv.Shutdown()
	log.Info().Msg("Worker exited")
}

func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")
}
