package repositories

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
)

// WalletReader defines read operations for wallet snapshots
type WalletReader interface {
	// FindWallet returns the stored snapshot for a tenant or apperrors.ErrNotFound.
	FindWallet(ctx context.Context, tenantID string) (*domain.Wallet, error)
}

// WalletWriter defines write operations for wallet snapshots
type WalletWriter interface {
	// SaveWallet stores w if the stored version still equals expectedVersion
	// (0 creates the wallet). A lost race returns apperrors.ErrConflict.
	SaveWallet(ctx context.Context, w domain.Wallet, expectedVersion int64) error
}

// WalletRepositoryFacade combines all wallet-related repository interfaces
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
