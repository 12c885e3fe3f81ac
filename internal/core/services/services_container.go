package services

import (
	"github.com/SscSPs/elra_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The same locker must guard wallets and approvals so that lock reentrancy holds across them.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker ports.Locker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	policies := PolicySetFromConfig(cfg)

	container.Budget = NewBudgetManager()

	// Wallets come first since every workflow mutates through them
	container.Wallets = NewWalletRegistry(
		repos.TxManager,
		repos.WalletRepo,
		repos.LedgerRepo,
		container.Budget,
		policies,
		WithWalletLocker(locker),
		WithDefaultPageSize(cfg.DefaultPageSize),
	)

	container.Payroll = NewPayrollApprovalService(repos.TxManager, repos.PayrollRepo, container.Wallets, policies, locker,
		WithApprovalPageSize(cfg.DefaultPageSize))
	container.SalesMarketing = NewSalesMarketingApprovalService(repos.TxManager, repos.SalesMarketingRepo, container.Wallets, policies, locker,
		WithApprovalPageSize(cfg.DefaultPageSize))
	container.Reporting = NewReportingService(container.Wallets, repos.LedgerRepo,
		WithAlertThreshold(cfg.UtilizationAlertThreshold))

	return container
}
