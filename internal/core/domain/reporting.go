package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary is the wallet overview served to dashboards.
type FinancialSummary struct {
	TotalFunds            decimal.Decimal                    `json:"totalFunds"`
	AvailableFunds        decimal.Decimal                    `json:"availableFunds"`
	AllocatedFunds        decimal.Decimal                    `json:"allocatedFunds"`
	ReservedFunds         decimal.Decimal                    `json:"reservedFunds"`
	UsedFunds             decimal.Decimal                    `json:"usedFunds"`
	UtilizationPercentage decimal.Decimal                    `json:"utilizationPercentage"`
	BudgetCategories      map[BudgetCategory]CategoryBalance `json:"budgetCategories"`
	AsOfVersion           int64                              `json:"asOfVersion"`
}

// BuildFinancialSummary derives the summary from a single snapshot.
func BuildFinancialSummary(w Wallet) FinancialSummary {
	cats := make(map[BudgetCategory]CategoryBalance, len(AllCategories()))
	for _, c := range AllCategories() {
		cats[c] = w.Category(c)
	}
	return FinancialSummary{
		TotalFunds:            w.TotalFunds,
		AvailableFunds:        w.ComputedAvailableFunds(),
		AllocatedFunds:        w.AllocatedFunds(),
		ReservedFunds:         w.ReservedFunds(),
		UsedFunds:             w.UsedFunds(),
		UtilizationPercentage: w.UtilizationPercentage(),
		BudgetCategories:      cats,
		AsOfVersion:           w.Version,
	}
}

// CategoryUtilization is one row of the utilization report.
type CategoryUtilization struct {
	Category              BudgetCategory  `json:"category"`
	Allocated             decimal.Decimal `json:"allocated"`
	Used                  decimal.Decimal `json:"used"`
	Reserved              decimal.Decimal `json:"reserved"`
	Available             decimal.Decimal `json:"available"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
}

// BuildCategoryUtilization lists every category in display order.
func BuildCategoryUtilization(w Wallet) []CategoryUtilization {
	out := make([]CategoryUtilization, 0, len(AllCategories()))
	for _, c := range AllCategories() {
		b := w.Category(c)
		out = append(out, CategoryUtilization{
			Category:              c,
			Allocated:             b.Allocated,
			Used:                  b.Used,
			Reserved:              b.Reserved,
			Available:             b.Available,
			UtilizationPercentage: b.UtilizationPercentage(),
		})
	}
	return out
}

// AlertSeverity grades a budget alert.
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// BudgetAlert is raised when a category's utilization exceeds the threshold.
type BudgetAlert struct {
	Category              BudgetCategory  `json:"category"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
	Threshold             decimal.Decimal `json:"threshold"`
	Severity              AlertSeverity   `json:"severity"`
	Message               string          `json:"message"`
}

// BuildAlerts returns an alert for every category strictly above threshold percent.
func BuildAlerts(w Wallet, threshold decimal.Decimal) []BudgetAlert {
	alerts := []BudgetAlert{}
	for _, u := range BuildCategoryUtilization(w) {
		if !u.UtilizationPercentage.GreaterThan(threshold) {
			continue
		}
		severity := AlertWarning
		if u.UtilizationPercentage.GreaterThanOrEqual(hundred) {
			severity = AlertCritical
		}
		alerts = append(alerts, BudgetAlert{
			Category:              u.Category,
			UtilizationPercentage: u.UtilizationPercentage,
			Threshold:             threshold,
			Severity:              severity,
			Message: fmt.Sprintf("%s budget is %s%% utilized (threshold %s%%)",
				u.Category, u.UtilizationPercentage.StringFixed(MoneyScale), threshold.StringFixed(MoneyScale)),
		})
	}
	return alerts
}

// AllocationPreview shows a category and the pool as they would be after an allocation.
type AllocationPreview struct {
	Category            BudgetCategory  `json:"category"`
	Amount              decimal.Decimal `json:"amount"`
	Current             CategoryBalance `json:"current"`
	After               CategoryBalance `json:"after"`
	PoolAvailableBefore decimal.Decimal `json:"poolAvailableBefore"`
	PoolAvailableAfter  decimal.Decimal `json:"poolAvailableAfter"`
	UtilizationBefore   decimal.Decimal `json:"utilizationBefore"`
	UtilizationAfter    decimal.Decimal `json:"utilizationAfter"`
	Feasible            bool            `json:"feasible"`
	AsOfVersion         int64           `json:"asOfVersion"`
}

// PreviewAllocation computes the effect of allocating amount to c without applying it.
func PreviewAllocation(w Wallet, c BudgetCategory, amount decimal.Decimal) AllocationPreview {
	current := w.Category(c)
	after := current
	after.Allocated = after.Allocated.Add(amount)
	after.Available = after.Available.Add(amount)
	poolBefore := w.ComputedAvailableFunds()
	return AllocationPreview{
		Category:            c,
		Amount:              amount,
		Current:             current,
		After:               after,
		PoolAvailableBefore: poolBefore,
		PoolAvailableAfter:  poolBefore.Sub(amount),
		UtilizationBefore:   current.UtilizationPercentage(),
		UtilizationAfter:    after.UtilizationPercentage(),
		Feasible:            amount.IsPositive() && !amount.GreaterThan(poolBefore),
		AsOfVersion:         w.Version,
	}
}

// MonthlyTrend aggregates one calendar month of ledger activity.
type MonthlyTrend struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Allocations decimal.Decimal `json:"allocations"`
	Reserved    decimal.Decimal `json:"reserved"`
	Used        decimal.Decimal `json:"used"`
	Released    decimal.Decimal `json:"released"`
	NetChange   decimal.Decimal `json:"netChange"`
	EntryCount  int             `json:"entryCount"`
}

// BuildMonthlyTrends buckets entries of the given year into twelve months (UTC).
// Withdrawals and releases are reported as positive magnitudes.
func BuildMonthlyTrends(year int, entries []LedgerEntry) []MonthlyTrend {
	trends := make([]MonthlyTrend, 12)
	for i := range trends {
		trends[i] = MonthlyTrend{
			Year:        year,
			Month:       i + 1,
			Deposits:    decimal.Zero,
			Withdrawals: decimal.Zero,
			Allocations: decimal.Zero,
			Reserved:    decimal.Zero,
			Used:        decimal.Zero,
			Released:    decimal.Zero,
			NetChange:   decimal.Zero,
		}
	}
	for _, e := range entries {
		ts := e.Timestamp.UTC()
		if ts.Year() != year {
			continue
		}
		t := &trends[ts.Month()-1]
		t.EntryCount++
		t.NetChange = t.NetChange.Add(e.TotalDelta())
		switch e.Type {
		case EntryDeposit:
			t.Deposits = t.Deposits.Add(e.Amount)
		case EntryWithdrawal:
			t.Withdrawals = t.Withdrawals.Add(e.Amount.Neg())
		case EntryAllocation:
			t.Allocations = t.Allocations.Add(e.Amount)
		case EntryReservation:
			t.Reserved = t.Reserved.Add(e.Amount)
		case EntryUse:
			t.Used = t.Used.Add(e.Amount)
		case EntryRelease:
			t.Released = t.Released.Add(e.Amount.Neg())
		}
	}
	return trends
}

// YearBounds returns [Jan 1 year, Jan 1 year+1) in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// ReconciliationReport compares the stored wallet with a replay of its ledger.
type ReconciliationReport struct {
	TenantID        string   `json:"tenantID"`
	SnapshotVersion int64    `json:"snapshotVersion"`
	ReplayedEntries int      `json:"replayedEntries"`
	Consistent      bool     `json:"consistent"`
	Differences     []string `json:"differences,omitempty"`
	Stored          Wallet   `json:"stored"`
	Replayed        Wallet   `json:"replayed"`
}

// DiffWallets lists the balance differences between two wallets.
func DiffWallets(stored, replayed Wallet) []string {
	var diffs []string
	if stored.Version != replayed.Version {
		diffs = append(diffs, fmt.Sprintf("version: stored %d, replayed %d", stored.Version, replayed.Version))
	}
	if !stored.TotalFunds.Equal(replayed.TotalFunds) {
		diffs = append(diffs, fmt.Sprintf("totalFunds: stored %s, replayed %s",
			stored.TotalFunds.StringFixed(MoneyScale), replayed.TotalFunds.StringFixed(MoneyScale)))
	}
	if !stored.AvailableFunds.Equal(replayed.AvailableFunds) {
		diffs = append(diffs, fmt.Sprintf("availableFunds: stored %s, replayed %s",
			stored.AvailableFunds.StringFixed(MoneyScale), replayed.AvailableFunds.StringFixed(MoneyScale)))
	}
	for _, c := range AllCategories() {
		s, r := stored.Category(c), replayed.Category(c)
		fields := []struct {
			name string
			a, b decimal.Decimal
		}{
			{"allocated", s.Allocated, r.Allocated},
			{"used", s.Used, r.Used},
			{"reserved", s.Reserved, r.Reserved},
			{"available", s.Available, r.Available},
		}
		for _, f := range fields {
			if !f.a.Equal(f.b) {
				diffs = append(diffs, fmt.Sprintf("%s.%s: stored %s, replayed %s", c, f.name,
					f.a.StringFixed(MoneyScale), f.b.StringFixed(MoneyScale)))
			}
		}
	}
	for key, r := range replayed.Reservations {
		s, ok := stored.Reservations[key]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("reservation %s: missing from stored wallet", key))
			continue
		}
		if s.Status != r.Status || !s.Amount.Equal(r.Amount) || s.Category != r.Category {
			diffs = append(diffs, fmt.Sprintf("reservation %s: stored %s %s, replayed %s %s", key,
				s.Status, s.Amount.StringFixed(MoneyScale), r.Status, r.Amount.StringFixed(MoneyScale)))
		}
	}
	for key := range stored.Reservations {
		if _, ok := replayed.Reservations[key]; !ok {
			diffs = append(diffs, fmt.Sprintf("reservation %s: not produced by the ledger", key))
		}
	}
	return diffs
}
