package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/pkg/container"
)

const healthAddr = ":9999"

// startServices checks every dependency, then starts the consumer pool and
// the probe endpoint.
func startServices(ctx context.Context, c *container.Container, srv *queue.Server) error {
	log.Info().
		Int("concurrency", c.Config.Worker.Concurrency).
		Msg("Bookstore worker starting")

	if err := checkAll(ctx, c); err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	go startHealthCheckServer(c)
	return nil
}

// checkAll runs the startup checks in order and stops at the first failure.
// The queue shares Redis with the cache, so it is checked through the Redis client.
func checkAll(ctx context.Context, c *container.Container) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis Connection", c.Redis.HealthCheck},
		{"Report Cache", c.Cache.Ping},
	}
	if c.DB != nil {
		checks = append(checks, struct {
			name string
			fn   func(context.Context) error
		}{"PostgreSQL", c.DB.Ping})
	}

	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.fn(checkCtx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Startup check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Startup check passed")
	}

	return nil
}

// startHealthCheckServer exposes /health and /ready for process supervisors.
func startHealthCheckServer(c *container.Container) {
	router := gin.New()
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "bookstore-catalog-worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := c.Redis.HealthCheck(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("addr", healthAddr).Msg("Worker health server starting")
	if err := router.Run(healthAddr); err != nil {
		log.Error().Err(err).Msg("Worker health server failed")
	}
}
