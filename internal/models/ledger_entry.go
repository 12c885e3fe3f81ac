package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TenantID      string          `db:"tenant_id"`
	Sequence      int64           `db:"sequence"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	Reference     string          `db:"reference"`
	ReferenceType string          `db:"reference_type"`
	Category      *string         `db:"category"` // Nullable
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	CreatedAt     time.Time       `db:"created_at"`
	ActorID       string          `db:"actor_id"`
}
