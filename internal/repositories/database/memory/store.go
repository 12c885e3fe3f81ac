// Package memory is a process-local implementation of the repository ports. It backs the
// service when no database is configured and is used throughout the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

// state is everything the store holds. A unit of work operates on a private copy that
// replaces the committed state only when the work succeeds.
type state struct {
	wallets map[string]domain.Wallet
	ledger  map[string][]domain.LedgerEntry
	payroll map[string]domain.PayrollApprovalRequest
	sales   map[string]domain.SalesMarketingApprovalRequest
}

func newState() *state {
	return &state{
		wallets: make(map[string]domain.Wallet),
		ledger:  make(map[string][]domain.LedgerEntry),
		payroll: make(map[string]domain.PayrollApprovalRequest),
		sales:   make(map[string]domain.SalesMarketingApprovalRequest),
	}
}

func (st *state) clone() *state {
	out := &state{
		wallets: make(map[string]domain.Wallet, len(st.wallets)),
		ledger:  make(map[string][]domain.LedgerEntry, len(st.ledger)),
		payroll: make(map[string]domain.PayrollApprovalRequest, len(st.payroll)),
		sales:   make(map[string]domain.SalesMarketingApprovalRequest, len(st.sales)),
	}
	for k, w := range st.wallets {
		out.wallets[k] = w.Clone()
	}
	for k, entries := range st.ledger {
		// capped so an append in the copy never writes into the committed backing array
		out.ledger[k] = entries[:len(entries):len(entries)]
	}
	for k, r := range st.payroll {
		out.payroll[k] = r
	}
	for k, r := range st.sales {
		out.sales[k] = r
	}
	return out
}

// Store is the in-memory database. Units of work are serialised; reads outside a unit of
// work see only committed state.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

type txCtxKey struct{ store *Store }

func NewStore() *Store {
	return &Store{data: newState()}
}

var _ portsrepo.TxManager = (*Store)(nil)

// WithinTx runs fn against a private copy of the store and commits it if fn succeeds and
// ctx is still live. Nested calls join the outer unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{s}).(*state); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{s}, work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// read runs fn against the unit of work in ctx, or the committed state.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if work, ok := ctx.Value(txCtxKey{s}).(*state); ok {
		return fn(work)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs fn inside the unit of work in ctx, opening one if needed.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txCtxKey{s}).(*state))
	})
}

func scopedKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// pageAfterCursor pages through items already sorted newest first by key.
func pageAfterCursor[T any](items []T, key func(T) (time.Time, string), limit int, token *string) ([]T, *string, error) {
	start := 0
	if token != nil && *token != "" {
		ts, id, err := pagination.DecodeToken(*token)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		start = sort.Search(len(items), func(i int) bool {
			t, itemID := key(items[i])
			return t.Before(ts) || (t.Equal(ts) && itemID < id)
		})
	}
	return pageFrom(items, key, start, limit)
}

func pageFrom[T any](items []T, key func(T) (time.Time, string), start, limit int) ([]T, *string, error) {
	if start >= len(items) {
		return []T{}, nil, nil
	}
	end := len(items)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	page := append([]T(nil), items[start:end]...)
	var next *string
	if end < len(items) {
		ts, id := key(page[len(page)-1])
		token := pagination.EncodeToken(ts, id)
		next = &token
	}
	return page, next, nil
}
