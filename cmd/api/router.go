package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"booka-backend/internal/infrastructure/database"
	"booka-backend/internal/shared/api"
	"booka-backend/internal/shared/middleware"
	"booka-backend/pkg/cache"
	"booka-backend/pkg/container"
)

// SetupRouter wires middleware and mounts every declared endpoint.
// A nil limiter disables rate limiting.
func SetupRouter(c *container.Container, limiter *middleware.IPRateLimiter) (*gin.Engine, error) {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(!c.Config.IsProduction(), c.Config.App.AllowedOrigins...),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registry := api.NewRegistry(c.JWTManager)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c.DB, c.Cache, c.Config.App.Version))
		v1.GET("/docs", registry.DocsHandler())

		auth := v1.Group("")
		if limiter != nil {
			auth.Use(middleware.RateLimit(limiter))
		}
		if err := registry.Mount(auth, c.UserHandler.Endpoints()...); err != nil {
			return nil, err
		}

		if err := registry.Mount(v1,
			concat(
				c.BookHandler.Endpoints(),
				c.ReviewHandler.Endpoints(),
				c.FeedHandler.Endpoints(),
			)...,
		); err != nil {
			return nil, err
		}
	}

	return router, nil
}

func concat(groups ...[]api.Endpoint) []api.Endpoint {
	var all []api.Endpoint
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// ========================================
// HEALTH CHECK
// ========================================

type dbHealth interface {
	Ping(ctx context.Context) error
	Stats() (*database.PoolStats, error)
}

func healthCheckHandler(db dbHealth, c cache.Cache, version string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		statusCode := http.StatusOK

		dbStatus := gin.H{"status": "ok"}
		if err := db.Ping(reqCtx); err != nil {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			dbStatus = gin.H{"status": "error", "error": err.Error()}
		} else if stats, err := db.Stats(); err == nil {
			dbStatus["pool"] = stats
		}

		cacheStatus := gin.H{"status": "disabled"}
		if c != nil {
			if err := c.Ping(reqCtx); err != nil {
				// the cache is optional, so the service only degrades
				if status == "healthy" {
					status = "degraded"
				}
				cacheStatus = gin.H{"status": "error", "error": err.Error()}
			} else {
				cacheStatus = gin.H{"status": "ok"}
			}
		}

		ctx.JSON(statusCode, gin.H{
			"status":    status,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database": dbStatus,
				"cache":    cacheStatus,
			},
		})
	}
}
