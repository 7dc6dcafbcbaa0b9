package executor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ormkit/sqlwriter/query/builder"
	"github.com/ormkit/sqlwriter/query/sqlgen"
	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// TxExecutor runs the reads and writes of one delete operation against
// an open transaction. All statements of one call share the transaction;
// no statement commits independently.
type TxExecutor struct {
	tx       *sql.Tx
	provider string
	writes   *builder.WriteBuilder
}

// NewTxExecutor creates an executor bound to a transaction.
func NewTxExecutor(tx *sql.Tx, provider string) *TxExecutor {
	return &TxExecutor{
		tx:       tx,
		provider: provider,
		writes:   builder.NewWriteBuilder(provider),
	}
}

// Writes returns the statement builder bound to this executor's
// provider, for callers selecting NestedActions up front.
func (e *TxExecutor) Writes() *builder.WriteBuilder {
	return e.writes
}

// FindRecord resolves a finder to the matching row snapshot. Returns a
// NotFoundError when zero rows match.
func (e *TxExecutor) FindRecord(ctx context.Context, finder *record.Finder) (*record.Record, error) {
	query := e.writes.SelectByFinder(finder, nil)

	rows, err := e.tx.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query execution failed: %w", err)
		}
		return nil, NewNotFoundError(finder)
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &record.Record{Columns: columns, Values: values}, nil
}

// FindID resolves a finder to the matching row's primary key. Returns a
// NotFoundError when zero rows match.
func (e *TxExecutor) FindID(ctx context.Context, finder *record.Finder) (record.ID, error) {
	query := e.writes.SelectByFinder(finder, []string{finder.Model.IDColumn})

	ids, err := e.SelectIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, NewNotFoundError(finder)
	}
	return ids[0], nil
}

// FindIDByParent resolves the key of the child connected to the parent
// through the relation field, scoped by the finder when one is given.
// When no linked row exists the returned NotConnectedError carries no
// parent descriptor; at this point only the parent key is known and the
// caller attaches the descriptor.
func (e *TxExecutor) FindIDByParent(ctx context.Context, field *schema.RelationField, parentID record.ID, finder *record.Finder) (record.ID, error) {
	query, err := e.writes.SelectIDByParent(field, parentID, finder)
	if err != nil {
		return nil, err
	}

	ids, err := e.SelectIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		notConnected := &NotConnectedError{
			RelationName: field.Relation.Name,
			ParentName:   field.Model.Name,
			ChildName:    field.RelatedModel.Name,
		}
		if finder != nil {
			notConnected.ChildWhere = FinderInfoFor(finder)
		}
		return nil, notConnected
	}
	return ids[0], nil
}

// SelectIDs executes a single-column read and returns the values of the
// first column.
func (e *TxExecutor) SelectIDs(ctx context.Context, query *sqlgen.Query) ([]record.ID, error) {
	rows, err := e.tx.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var ids []record.ID
	for rows.Next() {
		var id interface{}
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	return ids, nil
}

// execDelete runs one delete statement through the transaction.
func (e *TxExecutor) execDelete(ctx context.Context, query *sqlgen.Query) error {
	if _, err := e.tx.ExecContext(ctx, query.SQL, query.Args...); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}
