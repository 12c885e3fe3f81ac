package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
)

const trendsPageSize = 500

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	wallets          portssvc.WalletRegistrySvc
	ledgerRepo       portsrepo.LedgerReader
	defaultThreshold decimal.Decimal
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithAlertThreshold sets the utilization percentage alerts fire above when the caller
// does not pass one.
func WithAlertThreshold(threshold decimal.Decimal) ReportingServiceOption {
	return func(s *reportingService) {
		s.defaultThreshold = threshold
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(wallets portssvc.WalletRegistrySvc, ledgerRepo portsrepo.LedgerReader, options ...ReportingServiceOption) portssvc.ReportingSvc {
	svc := &reportingService{
		wallets:          wallets,
		ledgerRepo:       ledgerRepo,
		defaultThreshold: decimal.NewFromInt(80),
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// snapshot reads the one wallet snapshot a report is computed from.
func (s *reportingService) snapshot(ctx context.Context, actor domain.Actor) (*domain.Wallet, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	w, err := s.wallets.ForTenant(tenantID).Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read wallet for report", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	return w, nil
}

func (s *reportingService) FinancialSummary(ctx context.Context, actor domain.Actor) (*domain.FinancialSummary, error) {
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := domain.BuildFinancialSummary(*w)
	return &summary, nil
}

// MonthlyTrends aggregates the ledger of year, pinned to the snapshot's version.
func (s *reportingService) MonthlyTrends(ctx context.Context, actor domain.Actor, year int) (*dto.MonthlyTrendsResponse, error) {
	if year < 2000 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, year)
	}
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}

	var entries []domain.LedgerEntry
	if w.Version > 0 {
		from, to := domain.YearBounds(year)
		filter := domain.LedgerFilter{From: &from, To: &to, MaxSequence: w.Version}
		var cursor *string
		for {
			page, next, err := s.ledgerRepo.QueryEntries(ctx, w.TenantID, filter, domain.LedgerPage{Limit: trendsPageSize, Cursor: cursor})
			if err != nil {
				s.LogError(ctx, err, "Failed to read ledger for monthly trends",
					slog.String("tenant_id", w.TenantID), slog.Int("year", year))
				return nil, fmt.Errorf("failed to read ledger: %w", err)
			}
			entries = append(entries, page...)
			if next == nil {
				break
			}
			cursor = next
		}
	}

	s.LogDebug(ctx, "Monthly trends computed",
		slog.String("tenant_id", w.TenantID),
		slog.Int("year", year),
		slog.Int("entries", len(entries)))
	return &dto.MonthlyTrendsResponse{
		Year:        year,
		AsOfVersion: w.Version,
		Months:      domain.BuildMonthlyTrends(year, entries),
	}, nil
}

func (s *reportingService) CategoryUtilization(ctx context.Context, actor domain.Actor) (*dto.UtilizationResponse, error) {
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.UtilizationResponse{
		AsOfVersion: w.Version,
		Overall:     w.UtilizationPercentage(),
		Categories:  domain.BuildCategoryUtilization(*w),
	}, nil
}

func (s *reportingService) BudgetBreakdown(ctx context.Context, actor domain.Actor) (map[domain.BudgetCategory]domain.CategoryBalance, error) {
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[domain.BudgetCategory]domain.CategoryBalance, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		breakdown[c] = w.Category(c)
	}
	return breakdown, nil
}

func (s *reportingService) Alerts(ctx context.Context, actor domain.Actor, threshold *decimal.Decimal) (*dto.AlertsResponse, error) {
	t := s.defaultThreshold
	if threshold != nil {
		t = *threshold
	}
	if t.IsNegative() || t.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: threshold must be between 0 and 100", apperrors.ErrValidation)
	}
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.AlertsResponse{
		Threshold:   t,
		AsOfVersion: w.Version,
		Alerts:      domain.BuildAlerts(*w, t),
	}, nil
}

func (s *reportingService) PreviewAllocation(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.AllocationPreview, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, category)
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	w, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	preview := domain.PreviewAllocation(*w, category, amount)
	return &preview, nil
}
