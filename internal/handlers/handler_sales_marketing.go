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

// salesMarketingHandler handles HTTP requests of the sales & marketing approval workflow.
type salesMarketingHandler struct {
	service portssvc.SalesMarketingApprovalSvcFacade
}

func registerSalesMarketingRoutes(rg *gin.RouterGroup, service portssvc.SalesMarketingApprovalSvcFacade, mutation ...gin.HandlerFunc) {
	h := &salesMarketingHandler{service: service}

	approvals := rg.Group("/sales-marketing/approvals")
	{
		approvals.GET("", h.list)
		approvals.GET("/:id", h.getRequest)

		mutations := approvals.Group("", mutation...)
		mutations.POST("", h.submit)
		mutations.POST("/:id/approve", h.approve)
		mutations.POST("/:id/reject", h.reject)
	}
}

// list godoc
// @Summary List sales & marketing requests
// @Tags sales-marketing
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Param status query string false "pending, approved or rejected"
// @Param type query string false "revenue or expense"
// @Success 200 {object} dto.ListSalesMarketingApprovalsResponse
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /sales-marketing/approvals [get]
func (h *salesMarketingHandler) list(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "list_sales_marketing")
		return
	}
	resp, err := h.service.ListSalesMarketing(c.Request.Context(), actor, params)
	if err != nil {
		handleServiceError(c, err, "list_sales_marketing")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRequest godoc
// @Summary Get a sales & marketing request
// @Tags sales-marketing
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.SalesMarketingApprovalRequest
// @Failure 404 {object} ErrorResponse "Not found"
// @Security BearerAuth
// @Router /sales-marketing/approvals/{id} [get]
func (h *salesMarketingHandler) getRequest(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	req, err := h.service.GetSalesMarketingRequest(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "get_sales_marketing")
		return
	}
	c.JSON(http.StatusOK, req)
}

// submit godoc
// @Summary Submit a revenue or expense for approval
// @Tags sales-marketing
// @Accept json
// @Produce json
// @Param request body dto.SubmitSalesMarketingRequest true "Request details"
// @Success 201 {object} domain.SalesMarketingApprovalRequest
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Reference already used"
// @Security BearerAuth
// @Router /sales-marketing/approvals [post]
func (h *salesMarketingHandler) submit(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body dto.SubmitSalesMarketingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err, "submit_sales_marketing")
		return
	}
	req, err := h.service.SubmitSalesMarketing(c.Request.Context(), actor, body)
	if err != nil {
		handleServiceError(c, err, "submit_sales_marketing")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Sales & marketing request submitted",
		slog.String("request_id", req.ID), slog.String("type", string(req.Type)))
	c.JSON(http.StatusCreated, req)
}

// approve godoc
// @Summary Approve a sales & marketing request
// @Description Expenses are spent from the operational budget, revenue is deposited into it
// @Tags sales-marketing
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param approval body dto.ApproveRequest false "Comments"
// @Success 200 {object} domain.SalesMarketingApprovalRequest
// @Failure 403 {object} ErrorResponse "Only Finance may decide"
// @Failure 409 {object} ErrorResponse "Request already decided"
// @Failure 422 {object} ErrorResponse "Insufficient operational funds"
// @Security BearerAuth
// @Router /sales-marketing/approvals/{id}/approve [post]
func (h *salesMarketingHandler) approve(c *gin.Context) {
	h.decide(c, "approve_sales_marketing", h.service.ApproveSalesMarketing)
}

// reject godoc
// @Summary Reject a sales & marketing request
// @Tags sales-marketing
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param rejection body dto.ApproveRequest false "Comments"
// @Success 200 {object} domain.SalesMarketingApprovalRequest
// @Failure 403 {object} ErrorResponse "Only Finance may decide"
// @Failure 409 {object} ErrorResponse "Request already decided"
// @Security BearerAuth
// @Router /sales-marketing/approvals/{id}/reject [post]
func (h *salesMarketingHandler) reject(c *gin.Context) {
	h.decide(c, "reject_sales_marketing", h.service.RejectSalesMarketing)
}

type decisionFunc func(ctx context.Context, actor domain.Actor, requestID string, comments *string) (*domain.SalesMarketingApprovalRequest, error)

func (h *salesMarketingHandler) decide(c *gin.Context, operation string, decision decisionFunc) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body dto.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, operation)
			return
		}
	}
	req, err := decision(c.Request.Context(), actor, c.Param("id"), body.Comments)
	if err != nil {
		handleServiceError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, req)
}
