package services

import "context"

// TxRunner runs a function inside one database transaction. The storage
// plugin provides the implementation; services only see the boundary.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
