package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
)

type walletRepository struct {
	store *Store
}

// NewWalletRepository creates a wallet repository over store.
func NewWalletRepository(store *Store) portsrepo.WalletRepositoryFacade {
	return &walletRepository{store: store}
}

func (r *walletRepository) FindWallet(ctx context.Context, tenantID string) (*domain.Wallet, error) {
	var out *domain.Wallet
	err := r.store.read(ctx, func(st *state) error {
		w, ok := st.wallets[tenantID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("wallet for tenant %s not found", tenantID))
		}
		c := w.Clone()
		out = &c
		return nil
	})
	return out, err
}

func (r *walletRepository) SaveWallet(ctx context.Context, w domain.Wallet, expectedVersion int64) error {
	return r.store.write(ctx, func(st *state) error {
		current, ok := st.wallets[w.TenantID]
		stored := int64(0)
		if ok {
			stored = current.Version
		}
		if stored != expectedVersion {
			return fmt.Errorf("%w: wallet %s is at version %d, expected %d", apperrors.ErrConflict, w.TenantID, stored, expectedVersion)
		}
		st.wallets[w.TenantID] = w.Clone()
		return nil
	})
}
