package ports

import "context"

// Locker serialises work on a key across goroutines and, when backed by Redis, across
// processes. fn runs while the lock is held; the lock is released when fn returns.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// WalletLockKey is the lock guarding all balance mutations of a tenant.
func WalletLockKey(tenantID string) string {
	return "wallet:" + tenantID
}

// ApprovalLockKey is the lock guarding transitions of one approval request.
func ApprovalLockKey(kind, requestID string) string {
	return "approval:" + kind + ":" + requestID
}
