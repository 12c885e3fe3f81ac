package repositories

import (
	"context"
)

// TxManager runs a unit of work atomically. Repositories called with the ctx handed to fn
// join the same transaction; nested WithinTx calls reuse the outer one.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
