// Package record holds the row-level value types threaded through the
// write path: primary-key values, row snapshots and lookup criteria.
package record

import (
	"fmt"

	"github.com/ormkit/sqlwriter/schema"
)

// ID is an opaque primary-key value. Drivers return int64 or string
// depending on the column type; IDs are only compared and passed back
// into queries, never inspected.
type ID interface{}

// Record is a materialized row snapshot. A successful top-level delete
// returns the record as it was read before the delete ran.
type Record struct {
	Columns []string
	Values  []interface{}
}

// Get returns the value of a column, or nil if the column is absent.
func (r *Record) Get(column string) interface{} {
	for i, col := range r.Columns {
		if col == column {
			return r.Values[i]
		}
	}
	return nil
}

// ID extracts the primary-key value using the model's id column.
func (r *Record) ID(model *schema.Model) (ID, error) {
	for i, col := range r.Columns {
		if col == model.IDColumn {
			return r.Values[i], nil
		}
	}
	return nil, fmt.Errorf("record has no %s column for model %s", model.IDColumn, model.Name)
}

// Finder is an immutable lookup criterion scoped to one model. It must
// match at most one row.
type Finder struct {
	Model *schema.Model
	Field string
	Value interface{}
}

// NewFinder creates a finder for a unique field on a model.
func NewFinder(model *schema.Model, field string, value interface{}) *Finder {
	return &Finder{
		Model: model,
		Field: field,
		Value: value,
	}
}

// ByID creates a finder matching a model's primary key.
func ByID(model *schema.Model, id ID) *Finder {
	return &Finder{
		Model: model,
		Field: model.IDColumn,
		Value: id,
	}
}
