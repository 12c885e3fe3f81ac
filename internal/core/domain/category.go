package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
)

// BudgetCategory is one of the independent sub-ledgers of a wallet.
type BudgetCategory string

const (
	CategoryPayroll     BudgetCategory = "payroll"
	CategoryProjects    BudgetCategory = "projects"
	CategoryOperational BudgetCategory = "operational"
)

// AllCategories returns the categories in display order.
func AllCategories() []BudgetCategory {
	return []BudgetCategory{CategoryPayroll, CategoryProjects, CategoryOperational}
}

// IsValid reports whether c is a known category.
func (c BudgetCategory) IsValid() bool {
	switch c {
	case CategoryPayroll, CategoryProjects, CategoryOperational:
		return true
	}
	return false
}

// ParseBudgetCategory normalises and validates a category name.
func ParseBudgetCategory(s string) (BudgetCategory, error) {
	c := BudgetCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, s)
	}
	return c, nil
}

func (c BudgetCategory) String() string {
	return string(c)
}
