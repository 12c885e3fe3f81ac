package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fundedWallet(t *testing.T) domain.Wallet {
	t.Helper()
	w := domain.NewWallet("tenant-1")
	w = mustApply(t, w, nextEntry(w, domain.EntryDeposit, "1000000", nil, ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryAllocation, "400000", catPtr(domain.CategoryPayroll), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryAllocation, "100000", catPtr(domain.CategoryOperational), ""))
	w = mustApply(t, w, nextEntry(w, domain.EntryUse, "95000", catPtr(domain.CategoryOperational), "INV-7"))
	return w
}

func TestBuildFinancialSummary(t *testing.T) {
	w := fundedWallet(t)
	s := domain.BuildFinancialSummary(w)

	assert.True(t, s.TotalFunds.Equal(dec("1000000")))
	assert.True(t, s.AvailableFunds.Equal(dec("500000")))
	assert.True(t, s.AllocatedFunds.Equal(dec("500000")))
	assert.True(t, s.UsedFunds.Equal(dec("95000")))
	assert.True(t, s.UtilizationPercentage.Equal(dec("19")))
	assert.Len(t, s.BudgetCategories, 3)
	assert.Equal(t, w.Version, s.AsOfVersion)
}

func TestBuildAlerts(t *testing.T) {
	w := fundedWallet(t)

	alerts := domain.BuildAlerts(w, dec("80"))
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryOperational, alerts[0].Category)
	assert.Equal(t, domain.AlertWarning, alerts[0].Severity)
	assert.True(t, alerts[0].UtilizationPercentage.Equal(dec("95")))

	assert.Empty(t, domain.BuildAlerts(w, dec("95")), "threshold is exclusive")
}

func TestPreviewAllocation(t *testing.T) {
	w := fundedWallet(t)

	p := domain.PreviewAllocation(w, domain.CategoryOperational, dec("100000"))
	assert.True(t, p.Feasible)
	assert.True(t, p.PoolAvailableAfter.Equal(dec("400000")))
	assert.True(t, p.After.Allocated.Equal(dec("200000")))
	assert.True(t, p.UtilizationAfter.Equal(dec("47.5")))

	tooMuch := domain.PreviewAllocation(w, domain.CategoryProjects, dec("500000.01"))
	assert.False(t, tooMuch.Feasible)
}

func TestBuildMonthlyTrends(t *testing.T) {
	entries := []domain.LedgerEntry{
		{Type: domain.EntryDeposit, Amount: dec("500"), Timestamp: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Type: domain.EntryWithdrawal, Amount: dec("-200"), Timestamp: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)},
		{Type: domain.EntryUse, Amount: dec("50"), Category: catPtr(domain.CategoryPayroll), Timestamp: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Type: domain.EntryDeposit, Amount: dec("999"), Timestamp: time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)},
	}

	trends := domain.BuildMonthlyTrends(2026, entries)
	require.Len(t, trends, 12)
	assert.True(t, trends[0].Deposits.Equal(dec("500")))
	assert.True(t, trends[0].Withdrawals.Equal(dec("200")))
	assert.True(t, trends[0].NetChange.Equal(dec("300")))
	assert.Equal(t, 2, trends[0].EntryCount)
	assert.True(t, trends[2].Used.Equal(dec("50")))
	assert.Equal(t, 0, trends[11].EntryCount)
}
