package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryDeposit     EntryType = "deposit"
	EntryWithdrawal  EntryType = "withdrawal"
	EntryAllocation  EntryType = "allocation"
	EntryReservation EntryType = "reservation"
	EntryUse         EntryType = "use"
	EntryRelease     EntryType = "release"
	EntryApproval    EntryType = "approval"
	EntryRejection   EntryType = "rejection"
)

// AllEntryTypes lists every recognised entry type.
func AllEntryTypes() []EntryType {
	return []EntryType{EntryDeposit, EntryWithdrawal, EntryAllocation, EntryReservation, EntryUse, EntryRelease, EntryApproval, EntryRejection}
}

// IsValid reports whether t is a recognised entry type.
func (t EntryType) IsValid() bool {
	for _, known := range AllEntryTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseEntryType validates a raw entry type.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown ledger entry type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// requiresCategory reports whether the entry type always targets a category.
func (t EntryType) requiresCategory() bool {
	switch t {
	case EntryAllocation, EntryReservation, EntryUse, EntryRelease:
		return true
	}
	return false
}

// requiresReference reports whether the entry type must name the request it belongs to.
func (t EntryType) requiresReference() bool {
	switch t {
	case EntryReservation, EntryUse, EntryRelease, EntryApproval, EntryRejection:
		return true
	}
	return false
}

// Reference types used by the workflows.
const (
	ReferenceTypeManual         = "manual"
	ReferenceTypePayroll        = "payroll_approval"
	ReferenceTypeSalesMarketing = "sales_marketing_approval"
)

// EntryReference ties a ledger entry to the request that caused it.
type EntryReference struct {
	Reference     string
	ReferenceType string
}

// LedgerEntry is an immutable record of one balance-affecting event.
type LedgerEntry struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenantID"`
	Sequence      int64           `json:"sequence"`
	Type          EntryType       `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
	ReferenceType string          `json:"referenceType"`
	Category      *BudgetCategory `json:"category,omitempty"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Timestamp     time.Time       `json:"timestamp"`
	ActorID       string          `json:"actorID"`
}

// TotalDelta is the change the entry applies to the wallet total.
func (e LedgerEntry) TotalDelta() decimal.Decimal {
	switch e.Type {
	case EntryDeposit, EntryWithdrawal:
		return e.Amount
	}
	return decimal.Zero
}

// Validate checks the entry is well formed in isolation. Whether the wallet can absorb it is
// decided by ApplyEntry.
func (e LedgerEntry) Validate() error {
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: unknown ledger entry type %q", apperrors.ErrValidation, e.Type)
	}
	if e.Amount.IsZero() {
		return fmt.Errorf("%w: ledger entry amount must not be zero", apperrors.ErrValidation)
	}
	if err := ValidateScale(e.Amount); err != nil {
		return err
	}

	var wantPositive, wantNegative bool
	switch e.Type {
	case EntryDeposit, EntryReservation, EntryUse, EntryApproval:
		wantPositive = true
	case EntryWithdrawal, EntryRelease, EntryRejection:
		wantNegative = true
	}
	if wantPositive && !e.Amount.IsPositive() {
		return fmt.Errorf("%w: %s entry amount must be positive", apperrors.ErrValidation, e.Type)
	}
	if wantNegative && !e.Amount.IsNegative() {
		return fmt.Errorf("%w: %s entry amount must be negative", apperrors.ErrValidation, e.Type)
	}

	if e.Category != nil && !e.Category.IsValid() {
		return fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, *e.Category)
	}
	if e.Type.requiresCategory() && e.Category == nil {
		return fmt.Errorf("%w: %s entry requires a budget category", apperrors.ErrValidation, e.Type)
	}
	if e.Type.requiresReference() && e.Reference == "" {
		return fmt.Errorf("%w: %s entry requires a reference", apperrors.ErrValidation, e.Type)
	}
	return nil
}

// ValidateAppend checks next can follow prev (nil for the first entry of a tenant).
func ValidateAppend(prev *LedgerEntry, next LedgerEntry) error {
	if err := next.Validate(); err != nil {
		return err
	}

	prevSequence := int64(0)
	prevBalance := decimal.Zero
	if prev != nil {
		prevSequence = prev.Sequence
		prevBalance = prev.BalanceAfter
	}

	if next.BalanceAfter.IsNegative() {
		return fmt.Errorf("%w: balance after entry cannot be negative", apperrors.ErrValidation)
	}
	if next.Sequence != prevSequence+1 {
		return fmt.Errorf("%w: ledger sequence %d does not follow %d", apperrors.ErrValidation, next.Sequence, prevSequence)
	}
	expected := prevBalance.Add(next.TotalDelta())
	if !next.BalanceAfter.Equal(expected) {
		return fmt.Errorf("%w: balance after %s inconsistent with running balance %s",
			apperrors.ErrValidation, next.BalanceAfter.StringFixed(MoneyScale), expected.StringFixed(MoneyScale))
	}
	return nil
}

// LedgerFilter narrows ledger queries.
type LedgerFilter struct {
	Types       []EntryType
	Category    *BudgetCategory
	From        *time.Time // inclusive
	To          *time.Time // exclusive
	MaxSequence int64      // 0 means unbounded
}

// Matches reports whether an entry passes the filter.
func (f LedgerFilter) Matches(e LedgerEntry) bool {
	if f.MaxSequence > 0 && e.Sequence > f.MaxSequence {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Category != nil && (e.Category == nil || *e.Category != *f.Category) {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.Timestamp.Before(*f.To) {
		return false
	}
	return true
}

// LedgerPage selects a window of a ledger query. Cursor takes precedence over Offset.
type LedgerPage struct {
	Limit  int
	Cursor *string
	Offset int
}

// NewerThan orders entries newest first by (timestamp, id).
func NewerThan(a, b LedgerEntry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}
