package services

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/shopspring/decimal"
)

// ReportingSvc derives read-only views from one wallet snapshot and the ledger up to it.
type ReportingSvc interface {
	FinancialSummary(ctx context.Context, actor domain.Actor) (*domain.FinancialSummary, error)
	MonthlyTrends(ctx context.Context, actor domain.Actor, year int) (*dto.MonthlyTrendsResponse, error)
	CategoryUtilization(ctx context.Context, actor domain.Actor) (*dto.UtilizationResponse, error)
	BudgetBreakdown(ctx context.Context, actor domain.Actor) (map[domain.BudgetCategory]domain.CategoryBalance, error)
	Alerts(ctx context.Context, actor domain.Actor, threshold *decimal.Decimal) (*dto.AlertsResponse, error)
	PreviewAllocation(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.AllocationPreview, error)
}
