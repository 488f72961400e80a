package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/balance_updater/cmd/docs"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// health may be nil, in which case /health only reports liveness.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health portsrepo.HealthChecker,
) error {
	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	// Login and writes count separately.
	var loginLimit, writeLimit gin.HandlerFunc
	if cfg.RateLimit != "" {
		var err error
		if loginLimit, err = middleware.NewRateLimitMiddleware(cfg.RateLimit); err != nil {
			return err
		}
		if writeLimit, err = middleware.NewRateLimitMiddleware(cfg.RateLimit); err != nil {
			return err
		}
	}

	r.GET("/health", healthHandler(health))

	// Register public authentication routes
	registerAuthRoutes(r, services, loginLimit)

	// Setup API v1 routes with Auth Middleware
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterBalanceRoutes(v1, services.Balance, writeLimit)

	setupSwaggerRoutes(r, cfg)
	return nil
}

func healthHandler(health portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			c.String(http.StatusOK, "OK")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health.Ping(ctx); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Health check failed", slog.String("error", err.Error()))
			c.String(http.StatusServiceUnavailable, "DB UNAVAILABLE")
			return
		}
		c.String(http.StatusOK, "OK")
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
