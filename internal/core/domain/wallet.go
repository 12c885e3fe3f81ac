package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryBalance holds the sub-balances of one budget category.
type CategoryBalance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Used      decimal.Decimal `json:"used"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// UtilizationPercentage returns (used+reserved)/allocated*100 clamped to [0,100].
// A category with nothing allocated is 0% utilized.
func (c CategoryBalance) UtilizationPercentage() decimal.Decimal {
	return utilization(c.Used.Add(c.Reserved), c.Allocated)
}

func utilization(consumed, allocated decimal.Decimal) decimal.Decimal {
	if !allocated.IsPositive() {
		return decimal.Zero
	}
	pct := consumed.Mul(hundred).DivRound(allocated, MoneyScale+4).Round(MoneyScale)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// ReservationStatus tracks the lifecycle of an earmark.
type ReservationStatus string

const (
	ReservationOpen      ReservationStatus = "open"
	ReservationCommitted ReservationStatus = "committed"
	ReservationReleased  ReservationStatus = "released"
)

// Reservation is an amount earmarked in a category for a pending request.
type Reservation struct {
	Reference     string            `json:"reference"`
	ReferenceType string            `json:"referenceType"`
	Category      BudgetCategory    `json:"category"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	ResolvedAt    *time.Time        `json:"resolvedAt,omitempty"`
}

// ReservationKey identifies a reservation within a wallet.
func ReservationKey(referenceType, reference string) string {
	return referenceType + ":" + reference
}

// Wallet is the per-tenant fund pool. AvailableFunds is derived from TotalFunds and the
// category allocations and is only ever set by Recompute.
type Wallet struct {
	TenantID       string                             `json:"tenantID"`
	TotalFunds     decimal.Decimal                    `json:"totalFunds"`
	AvailableFunds decimal.Decimal                    `json:"availableFunds"`
	Categories     map[BudgetCategory]CategoryBalance `json:"categories"`
	Reservations   map[string]Reservation             `json:"reservations"`
	Version        int64                              `json:"version"`
	UpdatedAt      time.Time                          `json:"updatedAt"`
}

// NewWallet returns an empty wallet with every category present.
func NewWallet(tenantID string) Wallet {
	w := Wallet{
		TenantID:       tenantID,
		TotalFunds:     decimal.Zero,
		AvailableFunds: decimal.Zero,
		Categories:     make(map[BudgetCategory]CategoryBalance, len(AllCategories())),
		Reservations:   make(map[string]Reservation),
	}
	for _, c := range AllCategories() {
		w.Categories[c] = CategoryBalance{
			Allocated: decimal.Zero,
			Used:      decimal.Zero,
			Reserved:  decimal.Zero,
			Available: decimal.Zero,
		}
	}
	return w
}

// Clone returns a deep copy so mutations can be staged without touching the original.
func (w Wallet) Clone() Wallet {
	out := w
	out.Categories = make(map[BudgetCategory]CategoryBalance, len(w.Categories))
	for k, v := range w.Categories {
		out.Categories[k] = v
	}
	out.Reservations = make(map[string]Reservation, len(w.Reservations))
	for k, v := range w.Reservations {
		if v.ResolvedAt != nil {
			t := *v.ResolvedAt
			v.ResolvedAt = &t
		}
		out.Reservations[k] = v
	}
	return out
}

// Category returns the balance of c, zero valued if absent.
func (w Wallet) Category(c BudgetCategory) CategoryBalance {
	if b, ok := w.Categories[c]; ok {
		return b
	}
	return CategoryBalance{}
}

// AllocatedFunds is the sum of all category allocations.
func (w Wallet) AllocatedFunds() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range w.Categories {
		sum = sum.Add(b.Allocated)
	}
	return sum
}

// ReservedFunds is the sum of all category reservations.
func (w Wallet) ReservedFunds() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range w.Categories {
		sum = sum.Add(b.Reserved)
	}
	return sum
}

// UsedFunds is the sum of all committed spend.
func (w Wallet) UsedFunds() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range w.Categories {
		sum = sum.Add(b.Used)
	}
	return sum
}

// ComputedAvailableFunds is TotalFunds minus everything allocated to categories.
func (w Wallet) ComputedAvailableFunds() decimal.Decimal {
	return w.TotalFunds.Sub(w.AllocatedFunds())
}

// UtilizationPercentage is the wallet-wide share of allocated funds that is used or reserved.
func (w Wallet) UtilizationPercentage() decimal.Decimal {
	return utilization(w.UsedFunds().Add(w.ReservedFunds()), w.AllocatedFunds())
}

// Recompute refreshes the derived AvailableFunds field.
func (w *Wallet) Recompute() {
	w.AvailableFunds = w.ComputedAvailableFunds()
}

// OpenReservation returns the open reservation for a reference, if any.
func (w Wallet) OpenReservation(referenceType, reference string) (Reservation, bool) {
	r, ok := w.Reservations[ReservationKey(referenceType, reference)]
	if !ok || r.Status != ReservationOpen {
		return Reservation{}, false
	}
	return r, true
}

// CheckInvariants verifies conservation and non-negativity.
func (w Wallet) CheckInvariants() error {
	if w.TotalFunds.IsNegative() {
		return fmt.Errorf("%w: total funds %s is negative", apperrors.ErrInvariantViolation, w.TotalFunds.StringFixed(MoneyScale))
	}
	computed := w.ComputedAvailableFunds()
	if computed.IsNegative() {
		return fmt.Errorf("%w: allocations %s exceed total funds %s", apperrors.ErrInvariantViolation,
			w.AllocatedFunds().StringFixed(MoneyScale), w.TotalFunds.StringFixed(MoneyScale))
	}
	if !w.AvailableFunds.Equal(computed) {
		return fmt.Errorf("%w: stored available funds %s differ from computed %s", apperrors.ErrInvariantViolation,
			w.AvailableFunds.StringFixed(MoneyScale), computed.StringFixed(MoneyScale))
	}
	for c, b := range w.Categories {
		if !c.IsValid() {
			return fmt.Errorf("%w: unknown category %q in wallet", apperrors.ErrInvariantViolation, c)
		}
		if b.Allocated.IsNegative() || b.Used.IsNegative() || b.Reserved.IsNegative() || b.Available.IsNegative() {
			return fmt.Errorf("%w: category %s has a negative sub-balance", apperrors.ErrInvariantViolation, c)
		}
		if !b.Allocated.Equal(b.Used.Add(b.Reserved).Add(b.Available)) {
			return fmt.Errorf("%w: category %s allocated %s != used %s + reserved %s + available %s", apperrors.ErrInvariantViolation, c,
				b.Allocated.StringFixed(MoneyScale), b.Used.StringFixed(MoneyScale), b.Reserved.StringFixed(MoneyScale), b.Available.StringFixed(MoneyScale))
		}
	}
	openByCategory := make(map[BudgetCategory]decimal.Decimal)
	for _, r := range w.Reservations {
		if r.Status == ReservationOpen {
			openByCategory[r.Category] = openByCategory[r.Category].Add(r.Amount)
		}
	}
	for c, b := range w.Categories {
		if !b.Reserved.Equal(openByCategory[c]) {
			return fmt.Errorf("%w: category %s reserved %s does not match open reservations %s", apperrors.ErrInvariantViolation, c,
				b.Reserved.StringFixed(MoneyScale), openByCategory[c].StringFixed(MoneyScale))
		}
	}
	return nil
}

// ApplyEntry folds one ledger entry into a wallet and returns the resulting wallet.
// The input wallet is never modified. Live mutations and ledger replay both go through
// here so that replaying the ledger reproduces the stored snapshot exactly.
func ApplyEntry(w Wallet, e LedgerEntry) (Wallet, error) {
	if err := e.Validate(); err != nil {
		return w, err
	}
	if e.Sequence != w.Version+1 {
		return w, fmt.Errorf("%w: entry sequence %d does not follow wallet version %d", apperrors.ErrInvariantViolation, e.Sequence, w.Version)
	}

	next := w.Clone()
	if next.Categories == nil {
		next.Categories = make(map[BudgetCategory]CategoryBalance)
	}
	if next.Reservations == nil {
		next.Reservations = make(map[string]Reservation)
	}
	pool := next.ComputedAvailableFunds()

	switch e.Type {
	case EntryDeposit:
		next.TotalFunds = next.TotalFunds.Add(e.Amount)
		if e.Category != nil {
			b := next.Category(*e.Category)
			b.Allocated = b.Allocated.Add(e.Amount)
			b.Available = b.Available.Add(e.Amount)
			next.Categories[*e.Category] = b
		}

	case EntryWithdrawal:
		amount := e.Amount.Neg()
		if e.Category != nil {
			b := next.Category(*e.Category)
			if amount.GreaterThan(b.Available) {
				return w, apperrors.NewInsufficientFundsError(string(*e.Category)+".available", amount, b.Available)
			}
			b.Allocated = b.Allocated.Sub(amount)
			b.Available = b.Available.Sub(amount)
			next.Categories[*e.Category] = b
		} else if amount.GreaterThan(pool) {
			return w, apperrors.NewInsufficientFundsError("pool.available", amount, pool)
		}
		next.TotalFunds = next.TotalFunds.Sub(amount)

	case EntryAllocation:
		b := next.Category(*e.Category)
		if e.Amount.IsPositive() {
			if e.Amount.GreaterThan(pool) {
				return w, apperrors.NewInsufficientFundsError("pool.available", e.Amount, pool)
			}
		} else if e.Amount.Neg().GreaterThan(b.Available) {
			return w, apperrors.NewInsufficientFundsError(string(*e.Category)+".available", e.Amount.Neg(), b.Available)
		}
		b.Allocated = b.Allocated.Add(e.Amount)
		b.Available = b.Available.Add(e.Amount)
		next.Categories[*e.Category] = b

	case EntryReservation:
		key := ReservationKey(e.ReferenceType, e.Reference)
		if existing, ok := next.Reservations[key]; ok {
			return w, fmt.Errorf("%w: reference %s already has a %s reservation", apperrors.ErrInvalidState, e.Reference, existing.Status)
		}
		b := next.Category(*e.Category)
		if e.Amount.GreaterThan(b.Available) {
			return w, apperrors.NewInsufficientFundsError(string(*e.Category)+".available", e.Amount, b.Available)
		}
		b.Available = b.Available.Sub(e.Amount)
		b.Reserved = b.Reserved.Add(e.Amount)
		next.Categories[*e.Category] = b
		next.Reservations[key] = Reservation{
			Reference:     e.Reference,
			ReferenceType: e.ReferenceType,
			Category:      *e.Category,
			Amount:        e.Amount,
			Status:        ReservationOpen,
			CreatedAt:     e.Timestamp,
		}

	case EntryUse:
		key := ReservationKey(e.ReferenceType, e.Reference)
		b := next.Category(*e.Category)
		if r, ok := next.Reservations[key]; ok {
			if r.Status != ReservationOpen {
				return w, fmt.Errorf("%w: reservation for %s is already %s", apperrors.ErrInvalidState, e.Reference, r.Status)
			}
			if r.Category != *e.Category || !r.Amount.Equal(e.Amount) {
				return w, fmt.Errorf("%w: use of %s %s does not match reservation of %s %s", apperrors.ErrValidation,
					e.Category.String(), e.Amount.StringFixed(MoneyScale), r.Category, r.Amount.StringFixed(MoneyScale))
			}
			if e.Amount.GreaterThan(b.Reserved) {
				return w, apperrors.NewInsufficientFundsError(string(*e.Category)+".reserved", e.Amount, b.Reserved)
			}
			b.Reserved = b.Reserved.Sub(e.Amount)
			ts := e.Timestamp
			r.Status = ReservationCommitted
			r.ResolvedAt = &ts
			next.Reservations[key] = r
		} else {
			if e.Amount.GreaterThan(b.Available) {
				return w, apperrors.NewInsufficientFundsError(string(*e.Category)+".available", e.Amount, b.Available)
			}
			b.Available = b.Available.Sub(e.Amount)
		}
		b.Used = b.Used.Add(e.Amount)
		next.Categories[*e.Category] = b

	case EntryRelease:
		amount := e.Amount.Neg()
		key := ReservationKey(e.ReferenceType, e.Reference)
		r, ok := next.Reservations[key]
		if !ok {
			return w, fmt.Errorf("%w: no reservation exists for %s", apperrors.ErrInvalidState, e.Reference)
		}
		if r.Status != ReservationOpen {
			return w, fmt.Errorf("%w: reservation for %s is already %s", apperrors.ErrInvalidState, e.Reference, r.Status)
		}
		if r.Category != *e.Category || !r.Amount.Equal(amount) {
			return w, fmt.Errorf("%w: release of %s %s does not match reservation of %s %s", apperrors.ErrValidation,
				e.Category.String(), amount.StringFixed(MoneyScale), r.Category, r.Amount.StringFixed(MoneyScale))
		}
		b := next.Category(*e.Category)
		b.Reserved = b.Reserved.Sub(amount)
		b.Available = b.Available.Add(amount)
		next.Categories[*e.Category] = b
		ts := e.Timestamp
		r.Status = ReservationReleased
		r.ResolvedAt = &ts
		next.Reservations[key] = r

	case EntryApproval, EntryRejection:
		// decision records do not move funds
	}

	if !e.BalanceAfter.Equal(next.TotalFunds) {
		return w, fmt.Errorf("%w: entry %s balance after %s but wallet total is %s", apperrors.ErrInvariantViolation,
			e.ID, e.BalanceAfter.StringFixed(MoneyScale), next.TotalFunds.StringFixed(MoneyScale))
	}

	next.Version = e.Sequence
	next.UpdatedAt = e.Timestamp
	next.Recompute()
	if err := next.CheckInvariants(); err != nil {
		return w, err
	}
	return next, nil
}
