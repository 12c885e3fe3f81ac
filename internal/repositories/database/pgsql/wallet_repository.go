package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/elra_wallet/internal/models"
	"github.com/SscSPs/elra_wallet/internal/utils/mapping"
)

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet snapshots.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

// FindWallet reads the snapshot of a tenant. Inside a unit of work the row is locked so the
// version read is the one SaveWallet compares against.
func (r *PgxWalletRepository) FindWallet(ctx context.Context, tenantID string) (*domain.Wallet, error) {
	query := `
		SELECT tenant_id, total_funds, available_funds, categories, reservations, version, updated_at
		FROM wallets
		WHERE tenant_id = $1
	`
	if _, inTx := ctx.Value(txCtxKey{}).(pgx.Tx); inTx {
		query += ` FOR UPDATE`
	}

	var m models.Wallet
	err := r.db(ctx).QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID,
		&m.TotalFunds,
		&m.AvailableFunds,
		&m.Categories,
		&m.Reservations,
		&m.Version,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("wallet for tenant " + tenantID)
		}
		return nil, mapPgError(err, "failed to find wallet for tenant "+tenantID)
	}

	w, err := mapping.ToDomainWallet(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode wallet", err)
	}
	return &w, nil
}

// SaveWallet inserts the first snapshot of a tenant or updates it with a version compare.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, w domain.Wallet, expectedVersion int64) error {
	m, err := mapping.ToModelWallet(w)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode wallet", err)
	}

	var query string
	args := []any{m.TenantID, m.TotalFunds, m.AvailableFunds, m.Categories, m.Reservations, m.Version, m.UpdatedAt}
	if expectedVersion == 0 {
		query = `
			INSERT INTO wallets (tenant_id, total_funds, available_funds, categories, reservations, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tenant_id) DO NOTHING;
		`
	} else {
		query = `
			UPDATE wallets
			SET total_funds = $2, available_funds = $3, categories = $4, reservations = $5,
			    version = $6, updated_at = $7
			WHERE tenant_id = $1 AND version = $8;
		`
		args = append(args, expectedVersion)
	}

	tag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "failed to save wallet for tenant "+w.TenantID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: wallet for tenant %s is no longer at version %d", apperrors.ErrConflict, w.TenantID, expectedVersion)
	}
	return nil
}
