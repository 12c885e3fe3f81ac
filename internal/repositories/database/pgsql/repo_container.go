package pgsql

import (
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          NewTxManager(dbPool),
		WalletRepo:         newPgxWalletRepository(dbPool),
		LedgerRepo:         newPgxLedgerRepository(dbPool),
		PayrollRepo:        newPgxPayrollApprovalRepository(dbPool),
		SalesMarketingRepo: newPgxSalesMarketingApprovalRepository(dbPool),
	}
}
