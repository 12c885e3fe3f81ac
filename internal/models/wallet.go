package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the stored snapshot of a tenant wallet. Category balances and reservations are
// kept as JSONB documents next to the scalar totals.
type Wallet struct {
	TenantID       string          `db:"tenant_id"`
	TotalFunds     decimal.Decimal `db:"total_funds"`
	AvailableFunds decimal.Decimal `db:"available_funds"`
	Categories     []byte          `db:"categories"`
	Reservations   []byte          `db:"reservations"`
	Version        int64           `db:"version"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
