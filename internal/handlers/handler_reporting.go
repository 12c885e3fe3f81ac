package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/summary", h.getSummary)
		reportingGroup.GET("/breakdown", h.getBreakdown)
		reportingGroup.GET("/monthly-trends", h.getMonthlyTrends)
		reportingGroup.GET("/utilization", h.getUtilization)
		reportingGroup.GET("/alerts", h.getAlerts)
	}
}

// getSummary godoc
// @Summary Financial summary
// @Description Totals and per-category balances derived from one wallet snapshot
// @Tags reports
// @Produce json
// @Success 200 {object} domain.FinancialSummary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.FinancialSummary(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err, "financial_summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getBreakdown godoc
// @Summary Budget breakdown
// @Description Allocated, used, reserved and available amounts of every budget category
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]domain.CategoryBalance
// @Security BearerAuth
// @Router /reports/breakdown [get]
func (h *reportingHandler) getBreakdown(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	breakdown, err := h.reportingService.BudgetBreakdown(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err, "budget_breakdown")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// getMonthlyTrends godoc
// @Summary Monthly trends
// @Description Per-month ledger totals of a calendar year
// @Tags reports
// @Produce json
// @Param year query int false "Calendar year" default(current year)
// @Success 200 {object} dto.MonthlyTrendsResponse
// @Failure 400 {object} ErrorResponse "Invalid year"
// @Security BearerAuth
// @Router /reports/monthly-trends [get]
func (h *reportingHandler) getMonthlyTrends(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			handleServiceError(c, fmt.Errorf("%w: year must be a number", apperrors.ErrValidation), "monthly_trends")
			return
		}
		year = parsed
	}

	trends, err := h.reportingService.MonthlyTrends(c.Request.Context(), actor, year)
	if err != nil {
		handleServiceError(c, err, "monthly_trends")
		return
	}
	c.JSON(http.StatusOK, trends)
}

// getUtilization godoc
// @Summary Category utilization
// @Description Used plus reserved as a percentage of allocation, per category
// @Tags reports
// @Produce json
// @Success 200 {object} dto.UtilizationResponse
// @Security BearerAuth
// @Router /reports/utilization [get]
func (h *reportingHandler) getUtilization(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	report, err := h.reportingService.CategoryUtilization(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err, "category_utilization")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getAlerts godoc
// @Summary Budget alerts
// @Description Categories whose utilization is at or above the threshold
// @Tags reports
// @Produce json
// @Param threshold query number false "Percentage between 0 and 100"
// @Success 200 {object} dto.AlertsResponse
// @Failure 400 {object} ErrorResponse "Invalid threshold"
// @Security BearerAuth
// @Router /reports/alerts [get]
func (h *reportingHandler) getAlerts(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var threshold *decimal.Decimal
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			handleServiceError(c, fmt.Errorf("%w: threshold must be a number", apperrors.ErrValidation), "budget_alerts")
			return
		}
		threshold = &parsed
	}

	alerts, err := h.reportingService.Alerts(c.Request.Context(), actor, threshold)
	if err != nil {
		handleServiceError(c, err, "budget_alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}
