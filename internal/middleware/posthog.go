package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/elra_wallet/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware tracks successful mutations with PostHog. Reads are not tracked.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		actor, exists := GetActorFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/payroll/approvals/:id/approve" -> "payroll_approvals_approve"
		var parts []string
		for _, segment := range strings.Split(strings.TrimPrefix(c.FullPath(), "/api/v1/"), "/") {
			if segment == "" || strings.HasPrefix(segment, ":") {
				continue
			}
			parts = append(parts, strings.ReplaceAll(segment, "-", "_"))
		}
		if len(parts) == 0 {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
			"department":  actor.Department,
			"is_system":   actor.IsSystem,
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(actor.UserID, actor.TenantID, strings.Join(parts, "_"), props)
	}
}
