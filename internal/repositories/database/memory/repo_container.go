package memory

import (
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository to one in-memory store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          store,
		WalletRepo:         NewWalletRepository(store),
		LedgerRepo:         NewLedgerRepository(store),
		PayrollRepo:        NewPayrollApprovalRepository(store),
		SalesMarketingRepo: NewSalesMarketingApprovalRepository(store),
	}
}
