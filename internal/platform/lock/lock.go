// Package lock provides the Locker implementations used to serialise wallet and approval
// mutations. Locks are reentrant per context: a key already held by the calling chain is
// not acquired again, so a workflow holding a wallet lock can call wallet operations.
package lock

import (
	"context"
	"errors"
)

// ErrLockNotAcquired is returned when a lock could not be taken before giving up.
var ErrLockNotAcquired = errors.New("lock not acquired")

type heldKeysCtxKey struct{}

type heldKeys map[string]struct{}

func isHeld(ctx context.Context, key string) bool {
	held, _ := ctx.Value(heldKeysCtxKey{}).(heldKeys)
	_, ok := held[key]
	return ok
}

func withHeld(ctx context.Context, key string) context.Context {
	prev, _ := ctx.Value(heldKeysCtxKey{}).(heldKeys)
	next := make(heldKeys, len(prev)+1)
	for k := range prev {
		next[k] = struct{}{}
	}
	next[key] = struct{}{}
	return context.WithValue(ctx, heldKeysCtxKey{}, next)
}
