package executor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// Executor wraps a database handle and runs each delete operation in
// its own transaction: all checks and writes commit or roll back
// together. The violation probe stays valid until commit only as far as
// the transaction's isolation level guarantees it; callers needing a
// strict guarantee against concurrent writers should pass
// sql.LevelSerializable in TxOptions.
type Executor struct {
	db        *sql.DB
	provider  string
	txOptions *sql.TxOptions
}

// NewExecutor creates an executor over a database handle.
func NewExecutor(db *sql.DB, provider string) *Executor {
	return &Executor{
		db:       db,
		provider: provider,
	}
}

// WithTxOptions sets the options used when opening transactions.
func (e *Executor) WithTxOptions(opts *sql.TxOptions) *Executor {
	e.txOptions = opts
	return e
}

// Delete deletes the single record matched by the finder inside one
// transaction and returns its pre-deletion snapshot.
func (e *Executor) Delete(ctx context.Context, finder *record.Finder) (*record.Record, error) {
	tx, err := e.db.BeginTx(ctx, e.txOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	rec, err := NewTxExecutor(tx, e.provider).Execute(ctx, finder)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rec, nil
}

// DeleteNested deletes one record related to the parent key inside one
// transaction. The NestedActions implementation is selected from the
// relation field's kind.
func (e *Executor) DeleteNested(ctx context.Context, parentID record.ID, finder *record.Finder, field *schema.RelationField) error {
	tx, err := e.db.BeginTx(ctx, e.txOptions)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txe := NewTxExecutor(tx, e.provider)
	actions := ActionsFor(txe.Writes(), field)
	if err := txe.ExecuteNested(ctx, parentID, actions, finder, field); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
