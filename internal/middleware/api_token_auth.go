package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/utils"
	"github.com/gin-gonic/gin"
)

// TenantHeader names the tenant a system caller acts for.
const TenantHeader = "X-Tenant-ID"

// SystemAPIKeyAuth authenticates the payroll runner by its x-api-key. Requests without the
// header fall through to JWT auth; a wrong key is rejected outright.
func SystemAPIKeyAuth(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next() // No api key provided, let it continue
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		if !utils.CheckSecretHash(apiKey, keyHash) {
			logger.Warn("Invalid system API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		tenantID := c.GetHeader(TenantHeader)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": TenantHeader + " header required for system calls"})
			return
		}

		actor := domain.SystemActor(tenantID)
		enrichedLogger := logger.With(slog.String("user_id", actor.UserID), slog.String("tenant_id", tenantID))
		c.Request = c.Request.WithContext(WithLogger(WithActor(c.Request.Context(), actor), enrichedLogger))
		c.Set(authMethodKey, "api_key")
		c.Next()
	}
}
