package main

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupAuthorRoutes(router, c)
	setupCategoryRoutes(router, c)
	setupBookRoutes(router, c)
	setupReportRoutes(router, c)

	router.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Not Found")
	})

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(r *gin.Engine, c *container.Container) {
	authors := r.Group("/authors")
	{
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("", c.AuthorHandler.List)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(r *gin.Engine, c *container.Container) {
	categories := r.Group("/categories")
	{
		categories.POST("", c.CategoryHandler.Create)
		categories.GET("", c.CategoryHandler.List)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(r *gin.Engine, c *container.Container) {
	books := r.Group("/books")
	{
		books.POST("", c.BookHandler.Create)
		books.GET("", c.BookHandler.List)
		books.PUT("/:id", c.BookHandler.Update)
		books.DELETE("/:id", c.BookHandler.Delete)
	}
}

// ========================================
// REPORT ROUTES
// ========================================
func setupReportRoutes(r *gin.Engine, c *container.Container) {
	report := r.Group("/report")
	{
		report.POST("", c.ReportHandler.Request)
		report.GET("", c.ReportHandler.Get)
	}
}

type healthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}

// healthCheckHandler pings every configured dependency. Any failure turns the
// status to "degraded" with 503.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := appCtx.HealthChecks()
		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		health := healthResponse{
			Status:   "ok",
			Version:  appCtx.Config.App.Version,
			Services: make(map[string]string, len(checks)),
		}

		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := checks[name](ctx)
			cancel()

			if err != nil {
				health.Services[name] = "error: " + err.Error()
				health.Status = "degraded"
				continue
			}
			health.Services[name] = "ok"
		}

		status := http.StatusOK
		if health.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
