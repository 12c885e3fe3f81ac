package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

// approvalDeps is shared by the workflow services.
type approvalDeps struct {
	BaseService
	txManager       portsrepo.TxManager
	wallets         portssvc.WalletRegistrySvc
	policies        PolicySet
	locker          ports.Locker
	now             func() time.Time
	defaultPageSize int
}

// ApprovalServiceOption is a functional option for configuring the workflow services
type ApprovalServiceOption func(*approvalDeps)

// WithApprovalClock overrides the clock used to stamp decisions.
func WithApprovalClock(now func() time.Time) ApprovalServiceOption {
	return func(d *approvalDeps) {
		d.now = now
	}
}

// WithApprovalPageSize sets the listing page size used when none is requested.
func WithApprovalPageSize(size int) ApprovalServiceOption {
	return func(d *approvalDeps) {
		d.defaultPageSize = size
	}
}

func newApprovalDeps(txManager portsrepo.TxManager, wallets portssvc.WalletRegistrySvc, policies PolicySet, locker ports.Locker, options []ApprovalServiceOption) approvalDeps {
	d := approvalDeps{
		txManager:       txManager,
		wallets:         wallets,
		policies:        policies,
		locker:          locker,
		now:             time.Now,
		defaultPageSize: pagination.DefaultLimit,
	}
	for _, option := range options {
		option(&d)
	}
	return d
}

// timestamp returns the current time at the precision the stores keep.
func (d *approvalDeps) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Microsecond)
}

// tenantOf returns the tenant an actor works in.
func tenantOf(actor domain.Actor) (string, error) {
	if actor.TenantID == "" {
		return "", fmt.Errorf("%w: actor is not bound to a tenant", apperrors.ErrPermission)
	}
	return actor.TenantID, nil
}

// withTransition runs fn holding the request lock, then the tenant's wallet lock, inside one
// unit of work. Every transition takes the locks in this order.
func (d *approvalDeps) withTransition(ctx context.Context, kind, requestID, tenantID string, fn func(ctx context.Context) error) error {
	return d.locker.WithLock(ctx, ports.ApprovalLockKey(kind, requestID), func(ctx context.Context) error {
		return d.locker.WithLock(ctx, ports.WalletLockKey(tenantID), func(ctx context.Context) error {
			return d.txManager.WithinTx(ctx, fn)
		})
	})
}

// checkTransition resolves (state, action) against table and checks the actor may take it.
// State is checked first so a request that already moved on reports the transition error.
func checkTransition[S ~string](d *approvalDeps, table domain.TransitionTable[S], requestID string, state S, action domain.ApprovalAction, actor domain.Actor) (domain.Transition[S], error) {
	tr, ok := table.Lookup(state, action)
	if !ok {
		return tr, apperrors.NewInvalidTransitionError(requestID, string(state), string(action))
	}
	if err := d.policies.Check(tr.Role, actor); err != nil {
		return tr, err
	}
	return tr, nil
}

// conflictAsTransition reports a lost version race as the transition error the loser
// would have seen had it arrived second.
func conflictAsTransition(err error, requestID, state string, action domain.ApprovalAction) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.NewInvalidTransitionError(requestID, state, string(action))
	}
	return err
}
