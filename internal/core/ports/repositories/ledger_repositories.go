package repositories

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// QueryEntries returns entries newest first by (timestamp, id). When page.Cursor is set the
	// page starts after it, otherwise page.Offset rows are skipped. The returned token is nil
	// on the last page.
	QueryEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter, page domain.LedgerPage) ([]domain.LedgerEntry, *string, error)

	// CountEntries counts the entries matching filter.
	CountEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter) (int, error)

	// ListAllEntries returns every entry up to maxSequence (0 for all) in sequence order.
	ListAllEntries(ctx context.Context, tenantID string, maxSequence int64) ([]domain.LedgerEntry, error)

	// LastEntry returns the highest-sequence entry of a tenant, or nil for an empty ledger.
	LastEntry(ctx context.Context, tenantID string) (*domain.LedgerEntry, error)
}

// LedgerWriter defines the single mutation of the ledger
type LedgerWriter interface {
	// AppendEntry validates entry against the previous one and stores it.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
