package dto

import (
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MonthlyTrendsResponse lists the twelve months of a year.
type MonthlyTrendsResponse struct {
	Year        int                   `json:"year"`
	AsOfVersion int64                 `json:"asOfVersion"`
	Months      []domain.MonthlyTrend `json:"months"`
}

// UtilizationResponse lists per-category utilization.
type UtilizationResponse struct {
	AsOfVersion int64                        `json:"asOfVersion"`
	Overall     decimal.Decimal              `json:"overall"`
	Categories  []domain.CategoryUtilization `json:"categories"`
}

// AlertsResponse lists the categories above the threshold.
type AlertsResponse struct {
	Threshold   decimal.Decimal      `json:"threshold"`
	AsOfVersion int64                `json:"asOfVersion"`
	Alerts      []domain.BudgetAlert `json:"alerts"`
}
