package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "elra:idempotency:v1:"
	inProgressMarker     = "__in_progress__"
	idempotencyTimeout   = 2 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"contentType"`
}

// bodyRecorder tees the response body so it can be replayed later.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of an unsafe request whose Idempotency-Key was
// seen before. Keys are scoped to the authenticated actor, so it must run after auth.
// Requests without the header are not deduplicated. Server errors are not stored so the
// client may retry them.
func Idempotency(cache redis.UniversalClient, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > 255 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": IdempotencyKeyHeader + " must be at most 255 characters"})
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("idempotency_key", key))
		cacheKey := idempotencyCacheKey(c, key)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), idempotencyTimeout)
		defer cancel()

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			logger.Error("Idempotency reservation failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Idempotency store unavailable"})
			return
		}
		if !reserved {
			replayStored(c, cache, cacheKey, logger)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), idempotencyTimeout)
		defer persistCancel()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			cache.Del(persistCtx, cacheKey) // best effort cleanup
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status:      status,
			Body:        recorder.body.String(),
			ContentType: recorder.Header().Get("Content-Type"),
		})
		if err == nil {
			err = cache.Set(persistCtx, cacheKey, payload, ttl).Err()
		}
		if err != nil {
			logger.Error("Failed to persist idempotent response", slog.String("error", err.Error()))
			cache.Del(persistCtx, cacheKey)
		}
	}
}

func replayStored(c *gin.Context, cache redis.UniversalClient, cacheKey string, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), idempotencyTimeout)
	defer cancel()

	cached, err := cache.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) || cached == inProgressMarker {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A request with this Idempotency-Key is still being processed"})
		return
	}
	if err != nil {
		logger.Error("Idempotency lookup failed", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Idempotency store unavailable"})
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		logger.Warn("Failed to decode stored idempotent response", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Duplicate request"})
		return
	}

	logger.Debug("Replaying idempotent response", slog.Int("status", stored.Status))
	c.Header("Idempotent-Replayed", "true")
	c.Data(stored.Status, stored.ContentType, []byte(stored.Body))
	c.Abort()
}

// idempotencyCacheKey scopes a key to the caller and the resolved request path, so one key
// reused on two resources runs both.
func idempotencyCacheKey(c *gin.Context, key string) string {
	scope := "anonymous"
	if actor, ok := GetActorFromContext(c); ok {
		scope = actor.TenantID + ":" + actor.UserID
	}
	return idempotencyPrefix + scope + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}
