package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/SscSPs/elra_wallet/internal/middleware"
)

// payrollHandler handles HTTP requests of the payroll approval workflow.
type payrollHandler struct {
	payrollService portssvc.PayrollApprovalSvcFacade
}

func newPayrollHandler(ps portssvc.PayrollApprovalSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: ps}
}

func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollApprovalSvcFacade, mutation ...gin.HandlerFunc) {
	h := newPayrollHandler(payrollService)

	approvals := rg.Group("/payroll/approvals")
	{
		approvals.GET("", h.listPending)
		approvals.GET("/history", h.listHistory)
		approvals.GET("/:id", h.getRequest)

		mutations := approvals.Group("", mutation...)
		mutations.POST("", h.submit)
		mutations.POST("/:id/approve", h.approve)
		mutations.POST("/:id/reject", h.reject)
		mutations.POST("/:id/process", h.process)
	}
}

// listPending godoc
// @Summary List payroll requests awaiting a decision
// @Tags payroll
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListPayrollApprovalsResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /payroll/approvals [get]
func (h *payrollHandler) listPending(c *gin.Context) {
	h.list(c, "list_pending_payroll", h.payrollService.ListPendingPayroll)
}

// listHistory godoc
// @Summary List decided payroll requests
// @Tags payroll
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Param status query string false "approved_hr, rejected or processed"
// @Success 200 {object} dto.ListPayrollApprovalsResponse
// @Security BearerAuth
// @Router /payroll/approvals/history [get]
func (h *payrollHandler) listHistory(c *gin.Context) {
	h.list(c, "list_payroll_history", h.payrollService.ListPayrollHistory)
}

func (h *payrollHandler) list(c *gin.Context, operation string, fetch func(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListPayrollApprovalsResponse, error)) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, operation)
		return
	}
	resp, err := fetch(c.Request.Context(), actor, params)
	if err != nil {
		handleServiceError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRequest godoc
// @Summary Get a payroll request
// @Tags payroll
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.PayrollApprovalRequest
// @Failure 404 {object} ErrorResponse "Not found"
// @Security BearerAuth
// @Router /payroll/approvals/{id} [get]
func (h *payrollHandler) getRequest(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	req, err := h.payrollService.GetPayrollRequest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "get_payroll")
		return
	}
	c.JSON(http.StatusOK, req)
}

// submit godoc
// @Summary Submit a payroll for approval
// @Tags payroll
// @Accept json
// @Produce json
// @Param payroll body dto.SubmitPayrollRequest true "Period and totals"
// @Success 201 {object} domain.PayrollApprovalRequest
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "A live request exists for the period"
// @Security BearerAuth
// @Router /payroll/approvals [post]
func (h *payrollHandler) submit(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body dto.SubmitPayrollRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err, "submit_payroll")
		return
	}
	req, err := h.payrollService.SubmitPayroll(c.Request.Context(), actor, body)
	if err != nil {
		handleServiceError(c, err, "submit_payroll")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payroll submitted", slog.String("request_id", req.ID))
	c.JSON(http.StatusCreated, req)
}

// approve godoc
// @Summary Approve a payroll request
// @Description Finance approval reserves the net pay in the payroll category; HR approval is the final sign-off
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param approval body dto.ApprovePayrollRequest false "Stage and comments"
// @Success 200 {object} domain.PayrollApprovalRequest
// @Failure 403 {object} ErrorResponse "Actor may not approve at this stage"
// @Failure 409 {object} ErrorResponse "Request is not awaiting this approval"
// @Failure 422 {object} ErrorResponse "Insufficient payroll funds"
// @Security BearerAuth
// @Router /payroll/approvals/{id}/approve [post]
func (h *payrollHandler) approve(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body dto.ApprovePayrollRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "approve_payroll")
			return
		}
	}
	req, err := h.payrollService.ApprovePayroll(c.Request.Context(), actor, c.Param("id"), body)
	if err != nil {
		handleServiceError(c, err, "approve_payroll")
		return
	}
	c.JSON(http.StatusOK, req)
}

// reject godoc
// @Summary Reject a payroll request
// @Description Rejecting after Finance approval releases the reservation
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param rejection body dto.RejectPayrollRequest true "Reason"
// @Success 200 {object} domain.PayrollApprovalRequest
// @Failure 400 {object} ErrorResponse "Reason missing"
// @Failure 409 {object} ErrorResponse "Request can no longer be rejected"
// @Security BearerAuth
// @Router /payroll/approvals/{id}/reject [post]
func (h *payrollHandler) reject(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body dto.RejectPayrollRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err, "reject_payroll")
		return
	}
	req, err := h.payrollService.RejectPayroll(c.Request.Context(), actor, c.Param("id"), body.Reason)
	if err != nil {
		handleServiceError(c, err, "reject_payroll")
		return
	}
	c.JSON(http.StatusOK, req)
}

// process godoc
// @Summary Mark an HR-approved payroll as paid
// @Description Converts the reservation into spend. Called by the payroll runner with its API key.
// @Tags payroll
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.PayrollApprovalRequest
// @Failure 409 {object} ErrorResponse "Request is not HR approved"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payroll/approvals/{id}/process [post]
func (h *payrollHandler) process(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	req, err := h.payrollService.ProcessPayroll(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "process_payroll")
		return
	}
	c.JSON(http.StatusOK, req)
}
