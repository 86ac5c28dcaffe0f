package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/pkg/container"
)

// Serve builds the container, starts the HTTP server (and the embedded worker
// when configured) and blocks until SIGINT/SIGTERM.
func Serve(cfg *config.Config) {
	ctx := context.Background()

	appContainer, err := container.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer appContainer.Cleanup()

	var worker *queue.Server
	if cfg.Worker.Embedded {
		worker = appContainer.NewWorker()
		if err := worker.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start embedded worker")
		}
	}

	router := SetupRouter(appContainer)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.App.Port),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().
			Str("port", cfg.App.Port).
			Str("env", cfg.App.Environment).
			Bool("embedded_worker", cfg.Worker.Embedded).
			Msg("Server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server forced to shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}

	log.Info().Msg("Server exited gracefully")
}
