package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/elra_wallet/cmd/docs"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/middleware"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
	"github.com/SscSPs/elra_wallet/internal/utils"
)

// RouterDeps carries the optional infrastructure the routes use.
type RouterDeps struct {
	// Limiter throttles mutations per caller. Nil disables rate limiting.
	Limiter *limiter.Limiter
	// Redis stores Idempotency-Key responses. Nil disables idempotency replay.
	Redis redis.UniversalClient
	// HealthChecks are probed by GET /health.
	HealthChecks map[string]HealthChecker
	// Analytics receives successful mutations. Nil disables tracking.
	Analytics *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouterDeps,
) {
	// Add health check route
	r.GET("/health", getHealth(deps.HealthChecks))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouterDeps,
) {
	// The system key is checked first; JWT auth skips requests it already authenticated
	v1 := r.Group("/api/v1",
		middleware.SystemAPIKeyAuth(cfg.SystemAPIKeyHash),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(deps.Analytics),
	)

	var mutation []gin.HandlerFunc
	if deps.Limiter != nil {
		mutation = append(mutation, middleware.RateLimit(deps.Limiter))
	}
	if deps.Redis != nil {
		mutation = append(mutation, middleware.Idempotency(deps.Redis, cfg.IdempotencyTTL))
	}

	registerWalletRoutes(v1, service.Wallets, service.Reporting, mutation...)
	registerPayrollRoutes(v1, service.Payroll, mutation...)
	registerSalesMarketingRoutes(v1, service.SalesMarketing, mutation...)
	registerReportingRoutes(v1, service.Reporting)
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
