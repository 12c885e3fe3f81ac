package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/core/services"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
	"github.com/SscSPs/elra_wallet/internal/platform/lock"
	"github.com/SscSPs/elra_wallet/internal/repositories/database/memory"
)

const testTenant = "tenant-1"

var (
	financeActor = domain.Actor{UserID: "fin-1", TenantID: testTenant, RoleLevel: 3, Department: "Finance & Accounting"}
	hrActor      = domain.Actor{UserID: "hr-1", TenantID: testTenant, RoleLevel: 4, Department: "Human Resources"}
	juniorActor  = domain.Actor{UserID: "fin-2", TenantID: testTenant, RoleLevel: 1, Department: "Finance & Accounting"}
	salesActor   = domain.Actor{UserID: "sales-1", TenantID: testTenant, RoleLevel: 2, Department: "Sales & Marketing"}
	adminActor   = domain.Actor{UserID: "admin-1", TenantID: testTenant, IsSuperAdmin: true}
	runnerActor  = domain.SystemActor(testTenant)
)

func testConfig() *config.Config {
	return &config.Config{
		FinanceDepartment:         "Finance & Accounting",
		HRDepartment:              "Human Resources",
		ApproverMinRoleLevel:      3,
		UtilizationAlertThreshold: decimal.NewFromInt(80),
		DefaultPageSize:           20,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture wires the service container to a fresh in-memory store.
type fixture struct {
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func newFixture() *fixture {
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	return &fixture{
		store: store,
		repos: repos,
		svc:   services.NewServiceContainer(testConfig(), repos, lock.NewLocalLocker()),
	}
}

func (f *fixture) wallet() portssvc.WalletSvc {
	return f.svc.Wallets.ForTenant(testTenant)
}

// fund deposits total into the pool and allocates the given category amounts.
func (f *fixture) fund(t *testing.T, total string, allocations map[domain.BudgetCategory]string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.wallet().Deposit(ctx, financeActor, dec(total), "initial funding", nil, nil)
	require.NoError(t, err)
	for _, c := range domain.AllCategories() {
		amount, ok := allocations[c]
		if !ok {
			continue
		}
		_, err := f.wallet().AllocateToCategory(ctx, financeActor, c, dec(amount))
		require.NoError(t, err)
	}
}

func (f *fixture) snapshot(t *testing.T) domain.Wallet {
	t.Helper()
	w, err := f.wallet().Snapshot(context.Background())
	require.NoError(t, err)
	return *w
}

func (f *fixture) entryCount(t *testing.T) int {
	t.Helper()
	entries, err := f.repos.LedgerRepo.ListAllEntries(context.Background(), testTenant, 0)
	require.NoError(t, err)
	return len(entries)
}

// requireConsistent checks the stored wallet satisfies every invariant and equals a replay
// of its ledger.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	report, err := f.wallet().Reconcile(context.Background(), financeActor)
	require.NoError(t, err)
	require.True(t, report.Consistent, "differences: %v", report.Differences)
}

func requireDecEqual(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
