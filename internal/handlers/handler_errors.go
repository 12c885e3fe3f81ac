package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error        string `json:"error"`
	Bucket       string `json:"bucket,omitempty"`
	Requested    string `json:"requested,omitempty"`
	Available    string `json:"available,omitempty"`
	CurrentState string `json:"currentState,omitempty"`
}

// RegisterValidators adds the custom binding rules used by the DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("budget_category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseBudgetCategory(fl.Field().String())
		return err == nil
	})
}

// handleServiceError maps a service error to its HTTP status and logs it at the matching level.
func handleServiceError(c *gin.Context, err error, operation string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("operation", operation))
	resp := ErrorResponse{Error: err.Error()}

	var funds *apperrors.InsufficientFundsError
	var transition *apperrors.InvalidTransitionError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.As(err, &funds):
		status = http.StatusUnprocessableEntity
		resp.Bucket = funds.Bucket
		resp.Requested = funds.Requested.String()
		resp.Available = funds.Available.String()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &transition):
		status = http.StatusConflict
		resp.CurrentState = transition.CurrentState
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		resp = ErrorResponse{Error: "Internal server error"}
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, resp)
}

// actorOrAbort returns the authenticated actor, writing 401 when there is none.
func actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok || actor.UserID == "" {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

func bindError(c *gin.Context, err error, operation string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request",
		slog.String("operation", operation), slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
