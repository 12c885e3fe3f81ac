package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
)

type ledgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a ledger repository over store.
func NewLedgerRepository(store *Store) portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{store: store}
}

func entryKey(e domain.LedgerEntry) (time.Time, string) {
	return e.Timestamp, e.ID
}

// AppendEntry is the only way entries enter the ledger; there is no update or delete.
func (r *ledgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	err := r.store.write(ctx, func(st *state) error {
		entries := st.ledger[entry.TenantID]
		var prev *domain.LedgerEntry
		if n := len(entries); n > 0 {
			prev = &entries[n-1]
		}
		if err := domain.ValidateAppend(prev, entry); err != nil {
			return err
		}
		st.ledger[entry.TenantID] = append(entries, entry)
		return nil
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

func (r *ledgerRepository) matching(st *state, tenantID string, filter domain.LedgerFilter) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range st.ledger[tenantID] {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r *ledgerRepository) QueryEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter, page domain.LedgerPage) ([]domain.LedgerEntry, *string, error) {
	var (
		out  []domain.LedgerEntry
		next *string
	)
	err := r.store.read(ctx, func(st *state) error {
		entries := r.matching(st, tenantID, filter)
		sort.Slice(entries, func(i, j int) bool { return domain.NewerThan(entries[i], entries[j]) })

		var err error
		if page.Cursor != nil && *page.Cursor != "" {
			out, next, err = pageAfterCursor(entries, entryKey, page.Limit, page.Cursor)
		} else {
			out, next, err = pageFrom(entries, entryKey, page.Offset, page.Limit)
		}
		return err
	})
	return out, next, err
}

func (r *ledgerRepository) CountEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter) (int, error) {
	count := 0
	err := r.store.read(ctx, func(st *state) error {
		count = len(r.matching(st, tenantID, filter))
		return nil
	})
	return count, err
}

func (r *ledgerRepository) ListAllEntries(ctx context.Context, tenantID string, maxSequence int64) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	err := r.store.read(ctx, func(st *state) error {
		for _, e := range st.ledger[tenantID] {
			if maxSequence > 0 && e.Sequence > maxSequence {
				break
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func (r *ledgerRepository) LastEntry(ctx context.Context, tenantID string) (*domain.LedgerEntry, error) {
	var out *domain.LedgerEntry
	err := r.store.read(ctx, func(st *state) error {
		entries := st.ledger[tenantID]
		if n := len(entries); n > 0 {
			e := entries[n-1]
			out = &e
		}
		return nil
	})
	return out, err
}
