package postgres

import (
	"context"
	"database/sql"
	"log/slog"
)

// TxManager begins a transaction and threads it through the context so every
// repository call inside fn lands on the same *sql.Tx via GetExecutor.
type TxManager struct {
	db  *sql.DB
	log *slog.Logger
}

func NewTxManager(log *slog.Logger, db *sql.DB) *TxManager {
	return &TxManager{db: db, log: log}
}

func (tm *TxManager) WithTx(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	ctxWithTx := context.WithValue(ctx, txKey, tx)
	if err := fn(ctxWithTx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
