package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catPtr(c domain.BudgetCategory) *domain.BudgetCategory {
	return &c
}

// nextEntry builds the entry that would follow w, filling sequence and running balance.
func nextEntry(w domain.Wallet, typ domain.EntryType, amount string, cat *domain.BudgetCategory, ref string) domain.LedgerEntry {
	e := domain.LedgerEntry{
		ID:            fmt.Sprintf("e%d", w.Version+1),
		TenantID:      w.TenantID,
		Sequence:      w.Version + 1,
		Type:          typ,
		Amount:        dec(amount),
		Category:      cat,
		Reference:     ref,
		ReferenceType: domain.ReferenceTypePayroll,
		Timestamp:     time.Date(2026, 3, 1, 0, 0, int(w.Version), 0, time.UTC),
		ActorID:       "user-1",
	}
	e.BalanceAfter = w.TotalFunds.Add(e.TotalDelta())
	return e
}

func mustApply(t *testing.T, w domain.Wallet, e domain.LedgerEntry) domain.Wallet {
	t.Helper()
	next, err := domain.ApplyEntry(w, e)
	require.NoError(t, err)
	require.NoError(t, next.CheckInvariants())
	return next
}

func TestApplyEntry_ScenarioA(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000000", nil, ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryAllocation, "400000", catPtr(domain.CategoryPayroll), ""))

	assert.True(t, w.AvailableFunds.Equal(dec("600000")))
	assert.True(t, w.Category(domain.CategoryPayroll).Available.Equal(dec("400000")))
	assert.True(t, w.TotalFunds.Equal(dec("1000000")))
	assert.Equal(t, int64(2), w.Version)
}

func TestApplyEntry_ReserveThenUse(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000000", nil, ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryAllocation, "400000", catPtr(domain.CategoryPayroll), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryReservation, "150000", catPtr(domain.CategoryPayroll), "req-1"))

	payroll := w.Category(domain.CategoryPayroll)
	assert.True(t, payroll.Reserved.Equal(dec("150000")))
	assert.True(t, payroll.Available.Equal(dec("250000")))

	w = mustApply(t, w, nextEntry(w, domain.EntryUse, "150000", catPtr(domain.CategoryPayroll), "req-1"))
	payroll = w.Category(domain.CategoryPayroll)
	assert.True(t, payroll.Used.Equal(dec("150000")))
	assert.True(t, payroll.Reserved.IsZero())
	assert.True(t, payroll.Available.Equal(dec("250000")))

	r := w.Reservations[domain.ReservationKey(domain.ReferenceTypePayroll, "req-1")]
	assert.Equal(t, domain.ReservationCommitted, r.Status)
	require.NotNil(t, r.ResolvedAt)
}

func TestApplyEntry_UseWithoutReservationTakesAvailable(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "50000", catPtr(domain.CategoryOperational), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryUse, "50000", catPtr(domain.CategoryOperational), "INV-1"))

	op := w.Category(domain.CategoryOperational)
	assert.True(t, op.Used.Equal(dec("50000")))
	assert.True(t, op.Available.IsZero())
	assert.True(t, op.Allocated.Equal(dec("50000")))
}

func TestApplyEntry_Release(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000", catPtr(domain.CategoryPayroll), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryReservation, "400", catPtr(domain.CategoryPayroll), "req-1"))
	w = mustApply(t, w, nextEntry(w, domain.EntryRelease, "-400", catPtr(domain.CategoryPayroll), "req-1"))

	payroll := w.Category(domain.CategoryPayroll)
	assert.True(t, payroll.Available.Equal(dec("1000")))
	assert.True(t, payroll.Reserved.IsZero())

	_, err := domain.ApplyEntry(w, nextEntry(w, domain.EntryRelease, "-400", catPtr(domain.CategoryPayroll), "req-1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = domain.ApplyEntry(w, nextEntry(w, domain.EntryUse, "400", catPtr(domain.CategoryPayroll), "req-1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApplyEntry_ReleaseWithoutReservation(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000", catPtr(domain.CategoryPayroll), ""))

	_, err := domain.ApplyEntry(w, nextEntry(w, domain.EntryRelease, "-10", catPtr(domain.CategoryPayroll), "nope"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApplyEntry_MismatchedUseIsValidationError(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000", catPtr(domain.CategoryPayroll), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryReservation, "400", catPtr(domain.CategoryPayroll), "req-1"))

	_, err := domain.ApplyEntry(w, nextEntry(w, domain.EntryUse, "300", catPtr(domain.CategoryPayroll), "req-1"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApplyEntry_InsufficientFunds(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "100", nil, ""))

	tests := []struct {
		name   string
		entry  domain.LedgerEntry
		bucket string
	}{
		{"over-allocate", nextEntry(w, domain.EntryAllocation, "100.01", catPtr(domain.CategoryProjects), ""), "pool.available"},
		{"over-withdraw", nextEntry(w, domain.EntryWithdrawal, "-150", nil, ""), "pool.available"},
		{"reserve empty category", nextEntry(w, domain.EntryReservation, "1", catPtr(domain.CategoryPayroll), "r"), "payroll.available"},
		{"de-allocate more than available", nextEntry(w, domain.EntryAllocation, "-1", catPtr(domain.CategoryProjects), ""), "projects.available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ApplyEntry(w, tt.entry)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
			var detail *apperrors.InsufficientFundsError
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.bucket, detail.Bucket)
			assert.Equal(t, w.Version, got.Version, "wallet must be unchanged")
			assert.True(t, got.TotalFunds.Equal(w.TotalFunds))
		})
	}
}

func TestApplyEntry_DoesNotMutateInput(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000", catPtr(domain.CategoryPayroll), ""))
	before := w.Clone()

	_ = mustApply(t, w, nextEntry(w, domain.EntryReservation, "400", catPtr(domain.CategoryPayroll), "req-1"))

	assert.Empty(t, w.Reservations)
	assert.True(t, w.Category(domain.CategoryPayroll).Available.Equal(before.Category(domain.CategoryPayroll).Available))
}

func TestApplyEntry_SequenceAndBalanceChecks(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	e := nextEntry(w, domain.EntryDeposit, "100", nil, "")

	gap := e
	gap.Sequence = 3
	_, err := domain.ApplyEntry(w, gap)
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)

	badBalance := e
	badBalance.BalanceAfter = dec("99")
	_, err = domain.ApplyEntry(w, badBalance)
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}

func TestApplyEntry_DecisionRecordsAreNeutral(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "500", catPtr(domain.CategoryPayroll), ""))
	before := w.Clone()

	w = mustApply(t, w, nextEntry(w, domain.EntryRejection, "-150", catPtr(domain.CategoryPayroll), "req-9"))
	w = mustApply(t, w, nextEntry(w, domain.EntryApproval, "150", catPtr(domain.CategoryPayroll), "req-8"))

	assert.Equal(t, []string{"version: stored 1, replayed 3"}, domain.DiffWallets(before, w))
	assert.Equal(t, before.Category(domain.CategoryPayroll), w.Category(domain.CategoryPayroll))
}

func TestCheckInvariants_DetectsDirectWrite(t *testing.T) {
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "500", nil, ""))

	tampered := w.Clone()
	tampered.AvailableFunds = dec("600")
	assert.ErrorIs(t, tampered.CheckInvariants(), apperrors.ErrInvariantViolation)

	broken := w.Clone()
	b := broken.Categories[domain.CategoryProjects]
	b.Allocated = dec("10")
	broken.Categories[domain.CategoryProjects] = b
	broken.Recompute()
	assert.ErrorIs(t, broken.CheckInvariants(), apperrors.ErrInvariantViolation)
}

func TestUtilizationPercentage(t *testing.T) {
	tests := []struct {
		name string
		b    domain.CategoryBalance
		want string
	}{
		{"nothing allocated", domain.CategoryBalance{}, "0"},
		{"half used", domain.CategoryBalance{Allocated: dec("200"), Used: dec("60"), Reserved: dec("40"), Available: dec("100")}, "50"},
		{"thirds round to two places", domain.CategoryBalance{Allocated: dec("3"), Used: dec("1"), Available: dec("2")}, "33.33"},
		{"fully consumed", domain.CategoryBalance{Allocated: dec("10"), Used: dec("10")}, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.b.UtilizationPercentage().Equal(dec(tt.want)), "got %s", tt.b.UtilizationPercentage())
		})
	}
}
