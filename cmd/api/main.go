package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the process environment
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.App.Environment, cfg.Log.Level)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	gin.SetMode(ginMode(cfg.App.Environment))

	Serve(cfg)
}

func ginMode(env string) string {
	switch env {
	case config.EnvProduction:
		return gin.ReleaseMode
	case config.EnvTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
