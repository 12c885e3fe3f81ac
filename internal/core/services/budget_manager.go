package services

import (
	"fmt"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// budgetManager enforces the category allocation rules on wallet snapshots.
type budgetManager struct{}

// NewBudgetManager creates a new BudgetManagerSvc.
func NewBudgetManager() portssvc.BudgetManagerSvc {
	return &budgetManager{}
}

var _ portssvc.BudgetManagerSvc = (*budgetManager)(nil)

func (b *budgetManager) ValidateCategory(raw string) (domain.BudgetCategory, error) {
	return domain.ParseBudgetCategory(raw)
}

// CheckAllocation verifies amount can move between the pool and category without the sum
// of allocations exceeding the total. A negative amount is a de-allocation and is limited
// by the category's available balance.
func (b *budgetManager) CheckAllocation(w domain.Wallet, category domain.BudgetCategory, amount decimal.Decimal) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, category)
	}
	if amount.IsZero() {
		return fmt.Errorf("%w: allocation amount must not be zero", apperrors.ErrValidation)
	}
	if err := domain.ValidateScale(amount); err != nil {
		return err
	}
	if amount.IsNegative() {
		available := w.Category(category).Available
		if amount.Neg().GreaterThan(available) {
			return apperrors.NewInsufficientFundsError(string(category)+".available", amount.Neg(), available)
		}
		return nil
	}
	pool := w.ComputedAvailableFunds()
	if amount.GreaterThan(pool) {
		return apperrors.NewInsufficientFundsError("pool.available", amount, pool)
	}
	return nil
}

func (b *budgetManager) AvailableFunds(w domain.Wallet) decimal.Decimal {
	return w.ComputedAvailableFunds()
}

// Verify returns ErrInvariantViolation if w breaks conservation or non-negativity, or
// carries an AvailableFunds value that was written directly instead of derived.
func (b *budgetManager) Verify(w domain.Wallet) error {
	return w.CheckInvariants()
}

func (b *budgetManager) Utilization(w domain.Wallet) []domain.CategoryUtilization {
	return domain.BuildCategoryUtilization(w)
}
