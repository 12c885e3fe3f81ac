package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/utils"
)

type capturingSink struct {
	captured []posthog.Capture
}

func (s *capturingSink) Enqueue(msg posthog.Message) error {
	if capture, ok := msg.(posthog.Capture); ok {
		s.captured = append(s.captured, capture)
	}
	return nil
}

func (s *capturingSink) Close() error { return nil }

func TestPosthogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := &capturingSink{}
	analytics := utils.NewPosthogClientWrapper(sink, nil)

	r := gin.New()
	v1 := r.Group("/api/v1", func(c *gin.Context) {
		actor := domain.Actor{UserID: "u-1", TenantID: "t-1", Department: "Human Resources"}
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}, PosthogMiddleware(analytics))
	v1.POST("/payroll/approvals/:id/approve", func(c *gin.Context) { c.Status(http.StatusOK) })
	v1.POST("/payroll/approvals/:id/reject", func(c *gin.Context) { c.Status(http.StatusConflict) })
	v1.GET("/payroll/approvals/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/payroll/approvals/r-1/approve", "/api/v1/payroll/approvals/r-1/reject"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/payroll/approvals/r-1", nil))

	require.Len(t, sink.captured, 1)
	event := sink.captured[0]
	assert.Equal(t, "payroll_approvals_approve", event.Event)
	assert.Equal(t, "u-1", event.DistinctId)
	assert.Equal(t, "t-1", event.Groups["tenant"])
	assert.Equal(t, map[string]string{"id": "r-1"}, event.Properties["params"])
}

func TestPosthogMiddleware_UninitializedIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", PosthogMiddleware(&utils.PosthogClientWrapper{}), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}
