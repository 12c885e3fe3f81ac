package services

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/shopspring/decimal"
)

// WalletMutatorSvc defines the balance-changing operations of a tenant wallet. Every call
// appends exactly one ledger entry and updates the wallet in the same unit of work.
type WalletMutatorSvc interface {
	Deposit(ctx context.Context, actor domain.Actor, amount decimal.Decimal, description string, category *domain.BudgetCategory, ref *domain.EntryReference) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, actor domain.Actor, amount decimal.Decimal, description string, category *domain.BudgetCategory, ref *domain.EntryReference) (*domain.LedgerEntry, error)
	AllocateToCategory(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.LedgerEntry, error)
	DeallocateFromCategory(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.LedgerEntry, error)
	Reserve(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error)
	CommitUse(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error)
	Release(ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error)

	// RecordDecision appends a balance-neutral approval or rejection record.
	RecordDecision(ctx context.Context, actor domain.Actor, decision domain.EntryType, category domain.BudgetCategory, amount decimal.Decimal, ref domain.EntryReference) (*domain.LedgerEntry, error)
}

// WalletReaderSvc defines read operations of a tenant wallet
type WalletReaderSvc interface {
	// Snapshot returns the latest committed wallet.
	Snapshot(ctx context.Context) (*domain.Wallet, error)
	UtilizationPercentage(ctx context.Context, category domain.BudgetCategory) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// WalletAuditorSvc rebuilds the wallet from its ledger
type WalletAuditorSvc interface {
	ReplayLedger(ctx context.Context) (*domain.Wallet, error)
	Reconcile(ctx context.Context, actor domain.Actor) (*domain.ReconciliationReport, error)
}

// WalletSvc is the wallet aggregate of one tenant.
type WalletSvc interface {
	WalletMutatorSvc
	WalletReaderSvc
	WalletAuditorSvc
	TenantID() string
}

// WalletRegistrySvc hands out the wallet of a tenant.
type WalletRegistrySvc interface {
	ForTenant(tenantID string) WalletSvc
}

// BudgetManagerSvc enforces the category allocation rules.
type BudgetManagerSvc interface {
	ValidateCategory(raw string) (domain.BudgetCategory, error)
	CheckAllocation(w domain.Wallet, category domain.BudgetCategory, amount decimal.Decimal) error
	AvailableFunds(w domain.Wallet) decimal.Decimal
	Verify(w domain.Wallet) error
	Utilization(w domain.Wallet) []domain.CategoryUtilization
}
