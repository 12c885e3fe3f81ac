package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/SscSPs/elra_wallet/internal/platform/lock"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

// walletRegistry hands out per-tenant wallet services sharing one set of dependencies.
type walletRegistry struct {
	BaseService
	txManager       portsrepo.TxManager
	walletRepo      portsrepo.WalletRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	budget          portssvc.BudgetManagerSvc
	policies        PolicySet
	locker          ports.Locker
	now             func() time.Time
	defaultPageSize int
}

// WalletRegistryOption is a functional option for configuring the wallet registry
type WalletRegistryOption func(*walletRegistry)

// WithWalletLocker sets the locker used to serialise wallet mutations.
func WithWalletLocker(locker ports.Locker) WalletRegistryOption {
	return func(r *walletRegistry) {
		r.locker = locker
	}
}

// WithWalletClock overrides the clock used to timestamp ledger entries.
func WithWalletClock(now func() time.Time) WalletRegistryOption {
	return func(r *walletRegistry) {
		r.now = now
	}
}

// WithDefaultPageSize sets the transaction listing page size used when none is requested.
func WithDefaultPageSize(size int) WalletRegistryOption {
	return func(r *walletRegistry) {
		r.defaultPageSize = size
	}
}

// NewWalletRegistry creates a new WalletRegistrySvc.
func NewWalletRegistry(txManager portsrepo.TxManager, walletRepo portsrepo.WalletRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, budget portssvc.BudgetManagerSvc, policies PolicySet, options ...WalletRegistryOption) portssvc.WalletRegistrySvc {
	r := &walletRegistry{
		txManager:       txManager,
		walletRepo:      walletRepo,
		ledgerRepo:      ledgerRepo,
		budget:          budget,
		policies:        policies,
		locker:          lock.NewLocalLocker(),
		now:             time.Now,
		defaultPageSize: pagination.DefaultLimit,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.WalletRegistrySvc = (*walletRegistry)(nil)

// ForTenant returns the wallet of tenantID. Wallets are created lazily on first write.
func (r *walletRegistry) ForTenant(tenantID string) portssvc.WalletSvc {
	return &walletService{walletRegistry: r, tenantID: tenantID}
}

// walletService is the wallet aggregate of a single tenant.
type walletService struct {
	*walletRegistry
	tenantID string
}

var _ portssvc.WalletSvc = (*walletService)(nil)

func (s *walletService) TenantID() string {
	return s.tenantID
}

// load returns the committed wallet, or an empty one for a tenant that has never had funds.
func (s *walletService) load(ctx context.Context) (domain.Wallet, error) {
	w, err := s.walletRepo.FindWallet(ctx, s.tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewWallet(s.tenantID), nil
		}
		return domain.Wallet{}, fmt.Errorf("failed to load wallet: %w", err)
	}
	return *w, nil
}

// entryBuilder produces the entry of a mutation from the current wallet. It fills Type,
// Amount, Description, Category and Reference; the rest is stamped by apply.
type entryBuilder func(w domain.Wallet) (domain.LedgerEntry, error)

// apply runs one mutation: under the wallet lock and inside one unit of work it builds the
// entry, folds it into the wallet, appends it to the ledger and saves the new snapshot.
// Nothing is persisted unless every step succeeds.
func (s *walletService) apply(ctx context.Context, actor domain.Actor, operation string, build entryBuilder) (*domain.LedgerEntry, error) {
	var result domain.LedgerEntry
	err := s.locker.WithLock(ctx, ports.WalletLockKey(s.tenantID), func(ctx context.Context) error {
		return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			current, err := s.load(ctx)
			if err != nil {
				return err
			}
			if err := s.budget.Verify(current); err != nil {
				s.logInvariantViolation(ctx, err, operation, current)
				return err
			}

			entry, err := build(current)
			if err != nil {
				return err
			}
			entry.ID = uuid.NewString()
			entry.TenantID = s.tenantID
			entry.Sequence = current.Version + 1
			entry.Timestamp = s.now().UTC().Truncate(time.Microsecond)
			if !entry.Timestamp.After(current.UpdatedAt) {
				// keeps (timestamp, id) order identical to sequence order
				entry.Timestamp = current.UpdatedAt.Add(time.Microsecond)
			}
			entry.ActorID = actor.UserID
			entry.BalanceAfter = current.TotalFunds.Add(entry.TotalDelta())

			next, err := domain.ApplyEntry(current, entry)
			if err != nil {
				if errors.Is(err, apperrors.ErrInvariantViolation) {
					s.logInvariantViolation(ctx, err, operation, current)
				}
				return err
			}

			stored, err := s.ledgerRepo.AppendEntry(ctx, entry)
			if err != nil {
				return fmt.Errorf("failed to append ledger entry: %w", err)
			}
			if err := s.walletRepo.SaveWallet(ctx, next, current.Version); err != nil {
				return fmt.Errorf("failed to save wallet: %w", err)
			}
			result = stored
			return nil
		})
	})
	if err != nil {
		s.LogDebug(ctx, "Wallet mutation failed", slog.String("operation", operation),
			slog.String("tenant_id", s.tenantID), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Wallet mutation applied",
		slog.String("operation", operation),
		slog.String("tenant_id", s.tenantID),
		slog.String("entry_id", result.ID),
		slog.Int64("sequence", result.Sequence),
		slog.String("amount", result.Amount.StringFixed(domain.MoneyScale)))
	return &result, nil
}

func (s *walletService) logInvariantViolation(ctx context.Context, err error, operation string, snapshot domain.Wallet) {
	s.LogError(ctx, err, "Wallet invariant violated",
		slog.String("tenant_id", s.tenantID),
		slog.String("operation", operation),
		slog.Any("snapshot", snapshot))
}

// authorizeTreasury gates the operations that move money in or out of the wallet or
// between the pool and categories.
func (s *walletService) authorizeTreasury(ctx context.Context, actor domain.Actor) error {
	if err := s.AuthorizeTenant(ctx, actor, s.tenantID); err != nil {
		return err
	}
	if err := s.policies.Check(domain.RoleFinance, actor); err != nil {
		s.LogWarn(ctx, "Treasury operation refused", actorAttrs(actor)...)
		return err
	}
	return nil
}

func validateCategoryPtr(category *domain.BudgetCategory) error {
	if category != nil && !category.IsValid() {
		return fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, *category)
	}
	return nil
}

func validateReference(ref domain.EntryReference) error {
	if ref.Reference == "" || ref.ReferenceType == "" {
		return fmt.Errorf("%w: reference and reference type are required", apperrors.ErrValidation)
	}
	return nil
}

func manualReference(ref *domain.EntryReference) domain.EntryReference {
	if ref == nil {
		return domain.EntryReference{ReferenceType: domain.ReferenceTypeManual}
	}
	return *ref
}

func (s *walletService) Deposit(ctx context.Context, actor domain.Actor, amount decimal.Decimal, description string, category *domain.BudgetCategory, ref *domain.EntryReference) (*domain.LedgerEntry, error) {
	if err := s.authorizeTreasury(ctx, actor); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	if err := validateCategoryPtr(category); err != nil {
		return nil, err
	}
	r := manualReference(ref)

	return s.apply(ctx, actor, "deposit", func(w domain.Wallet) (domain.LedgerEntry, error) {
		return domain.LedgerEntry{
			Type:          domain.EntryDeposit,
			Amount:        amount,
			Description:   description,
			Category:      category,
			Reference:     r.Reference,
			ReferenceType: r.ReferenceType,
		}, nil
	})
}

func (s *walletService) Withdraw(ctx context.Context, actor domain.Actor, amount decimal.Decimal, description string, category *domain.BudgetCategory, ref *domain.EntryReference) (*domain.LedgerEntry, error) {
	if err := s.authorizeTreasury(ctx, actor); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	if err := validateCategoryPtr(category); err != nil {
		return nil, err
	}
	r := manualReference(ref)

	return s.apply(ctx, actor, "withdraw", func(w domain.Wallet) (domain.LedgerEntry, error) {
		return domain.LedgerEntry{
			Type:          domain.EntryWithdrawal,
			Amount:        amount.Neg(),
			Description:   description,
			Category:      category,
			Reference:     r.Reference,
			ReferenceType: r.ReferenceType,
		}, nil
	})
}

func (s *walletService) AllocateToCategory(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	return s.allocate(ctx, actor, "allocate", category, amount, fmt.Sprintf("Allocate to %s budget", category))
}

func (s *walletService) DeallocateFromCategory(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	return s.allocate(ctx, actor, "deallocate", category, amount.Neg(), fmt.Sprintf("Release from %s budget", category))
}

func (s *walletService) allocate(ctx context.Context, actor domain.Actor, operation string, category domain.BudgetCategory, amount decimal.Decimal, description string) (*domain.LedgerEntry, error) {
	if err := s.authorizeTreasury(ctx, actor); err != nil {
		return nil, err
	}
	if _, err := s.budget.ValidateCategory(string(category)); err != nil {
		return nil, err
	}

	return s.apply(ctx, actor, operation, func(w domain.Wallet) (domain.LedgerEntry, error) {
		if err := s.budget.CheckAllocation(w, category, amount); err != nil {
			return domain.LedgerEntry{}, err
		}
		c := category
		return domain.LedgerEntry{
			Type:          domain.EntryAllocation,
			Amount:        amount,
			Description:   description,
			Category:      &c,
			ReferenceType: domain.ReferenceTypeManual,
		}, nil
	})
}

// earmark covers the reservation-side primitives used by the workflows.
func (s *walletService) earmark(ctx context.Context, actor domain.Actor, operation string, typ domain.EntryType, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference, description string) (*domain.LedgerEntry, error) {
	if err := s.AuthorizeTenant(ctx, actor, s.tenantID); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, category)
	}
	if err := validateReference(ref); err != nil {
		return nil, err
	}

	signed := amount
	if typ == domain.EntryRelease || typ == domain.EntryRejection {
		signed = amount.Neg()
	}
	c := category
	return s.apply(ctx, actor, operation, func(w domain.Wallet) (domain.LedgerEntry, error) {
		return domain.LedgerEntry{
			Type:          typ,
			Amount:        signed,
			Description:   description,
			Category:      &c,
			Reference:     ref.Reference,
			ReferenceType: ref.ReferenceType,
		}, nil
	})
}

func (s *walletService) Reserve(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error) {
	return s.earmark(ctx, actor, "reserve", domain.EntryReservation, category, amount, ref,
		fmt.Sprintf("Reserve %s funds for %s %s", category, ref.ReferenceType, ref.Reference))
}

// CommitUse consumes the open reservation of ref, or the category's available balance when
// ref has no reservation.
func (s *walletService) CommitUse(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error) {
	return s.earmark(ctx, actor, "commit_use", domain.EntryUse, category, amount, ref,
		fmt.Sprintf("Use %s funds for %s %s", category, ref.ReferenceType, ref.Reference))
}

func (s *walletService) Release(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error) {
	return s.earmark(ctx, actor, "release", domain.EntryRelease, category, amount, ref,
		fmt.Sprintf("Release %s reservation for %s %s", category, ref.ReferenceType, ref.Reference))
}

func (s *walletService) RecordDecision(ctx context.Context, actor domain.Actor, decision domain.EntryType, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error) {
	if decision != domain.EntryApproval && decision != domain.EntryRejection {
		return nil, fmt.Errorf("%w: %s is not a decision entry type", apperrors.ErrValidation, decision)
	}
	verb := "Approved"
	if decision == domain.EntryRejection {
		verb = "Rejected"
	}
	return s.earmark(ctx, actor, "record_"+string(decision), decision, category, amount, ref,
		fmt.Sprintf("%s %s %s", verb, ref.ReferenceType, ref.Reference))
}

// Snapshot returns the latest committed wallet.
func (s *walletService) Snapshot(ctx context.Context) (*domain.Wallet, error) {
	w, err := s.load(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load wallet snapshot", slog.String("tenant_id", s.tenantID))
		return nil, err
	}
	return &w, nil
}

func (s *walletService) UtilizationPercentage(ctx context.Context, category domain.BudgetCategory) (decimal.Decimal, error) {
	if !category.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unknown budget category %q", apperrors.ErrValidation, category)
	}
	w, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Category(category).UtilizationPercentage(), nil
}

// ListTransactions pages through the ledger newest first. The listing is pinned to the
// ledger sequence in params.AsOf, or to the current wallet version when unset.
func (s *walletService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := domain.LedgerFilter{}
	if params.Type != "" {
		t, err := domain.ParseEntryType(params.Type)
		if err != nil {
			return nil, err
		}
		filter.Types = []domain.EntryType{t}
	}
	if params.Category != "" {
		c, err := s.budget.ValidateCategory(params.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = &c
	}
	if params.StartDate != nil {
		from := params.StartDate.UTC()
		filter.From = &from
	}
	if params.EndDate != nil {
		// end date is inclusive of the whole day
		to := params.EndDate.UTC().AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)
	}

	if params.AsOf < 0 {
		return nil, fmt.Errorf("%w: asOf must not be negative", apperrors.ErrValidation)
	}
	asOf := params.AsOf
	if asOf == 0 {
		w, err := s.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		asOf = w.Version
	}
	filter.MaxSequence = asOf

	limit := pagination.NormalizeLimit(params.Limit, s.defaultPageSize)
	page := params.Page
	if page < 1 {
		page = 1
	}

	total := 0
	var entries []domain.LedgerEntry
	var nextToken *string
	if asOf > 0 {
		var err error
		total, err = s.ledgerRepo.CountEntries(ctx, s.tenantID, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to count ledger entries", slog.String("tenant_id", s.tenantID))
			return nil, fmt.Errorf("failed to count ledger entries: %w", err)
		}
		entries, nextToken, err = s.ledgerRepo.QueryEntries(ctx, s.tenantID, filter, domain.LedgerPage{
			Limit:  limit,
			Cursor: params.NextToken,
			Offset: pagination.Offset(page, limit),
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to query ledger entries", slog.String("tenant_id", s.tenantID))
			return nil, fmt.Errorf("failed to query ledger entries: %w", err)
		}
	}

	totalPages := pagination.TotalPages(total, limit)
	hasNext := nextToken != nil
	if params.NextToken == nil {
		hasNext = page < totalPages
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToLedgerEntryResponses(entries),
		Pagination: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			HasNext:     hasNext,
			HasPrev:     page > 1,
		},
		NextToken: nextToken,
		AsOf:      asOf,
	}, nil
}

// ReplayLedger rebuilds the wallet from an empty state by folding every ledger entry in
// sequence order.
func (s *walletService) ReplayLedger(ctx context.Context) (*domain.Wallet, error) {
	entries, err := s.ledgerRepo.ListAllEntries(ctx, s.tenantID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	w := domain.NewWallet(s.tenantID)
	for _, e := range entries {
		next, err := domain.ApplyEntry(w, e)
		if err != nil {
			return nil, fmt.Errorf("%w: replay stopped at sequence %d: %v", apperrors.ErrInvariantViolation, e.Sequence, err)
		}
		w = next
	}
	return &w, nil
}

// Reconcile compares the stored snapshot with a replay of the ledger. Drift is reported in
// the returned report together with an error wrapping ErrInvariantViolation.
func (s *walletService) Reconcile(ctx context.Context, actor domain.Actor) (*domain.ReconciliationReport, error) {
	if err := s.authorizeTreasury(ctx, actor); err != nil {
		return nil, err
	}

	var report *domain.ReconciliationReport
	err := s.locker.WithLock(ctx, ports.WalletLockKey(s.tenantID), func(ctx context.Context) error {
		stored, err := s.load(ctx)
		if err != nil {
			return err
		}
		replayed, err := s.ReplayLedger(ctx)
		if err != nil {
			return err
		}

		diffs := domain.DiffWallets(stored, *replayed)
		if err := s.budget.Verify(stored); err != nil {
			diffs = append(diffs, err.Error())
		}
		report = &domain.ReconciliationReport{
			TenantID:        s.tenantID,
			SnapshotVersion: stored.Version,
			ReplayedEntries: int(replayed.Version),
			Consistent:      len(diffs) == 0,
			Differences:     diffs,
			Stored:          stored,
			Replayed:        *replayed,
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Wallet reconciliation failed", slog.String("tenant_id", s.tenantID))
		return nil, err
	}

	if !report.Consistent {
		s.LogError(ctx, apperrors.ErrInvariantViolation, "Wallet snapshot drifted from ledger",
			slog.String("tenant_id", s.tenantID),
			slog.String("operation", "reconcile"),
			slog.Any("differences", report.Differences),
			slog.Any("snapshot", report.Stored))
		return report, fmt.Errorf("%w: wallet snapshot differs from ledger replay in %d place(s)",
			apperrors.ErrInvariantViolation, len(report.Differences))
	}

	s.LogInfo(ctx, "Wallet reconciled",
		slog.String("tenant_id", s.tenantID),
		slog.Int("entries", report.ReplayedEntries))
	return report, nil
}
