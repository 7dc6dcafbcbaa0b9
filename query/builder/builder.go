// Package builder constructs the statements the write path executes:
// locator selects, connectivity and violation probes, and delete
// statements. Construction is pure; nothing here touches the database.
package builder

import (
	"fmt"

	"github.com/ormkit/sqlwriter/query/sqlgen"
	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// WriteBuilder builds statements for one provider.
type WriteBuilder struct {
	generator sqlgen.Generator
}

// NewWriteBuilder creates a statement builder for the given provider.
func NewWriteBuilder(provider string) *WriteBuilder {
	return &WriteBuilder{
		generator: sqlgen.NewGenerator(provider),
	}
}

// Generator returns the underlying SQL generator.
func (b *WriteBuilder) Generator() sqlgen.Generator {
	return b.generator
}

// SelectByFinder builds the locator read for a finder. With no columns
// given the statement selects the full row.
func (b *WriteBuilder) SelectByFinder(finder *record.Finder, columns []string) *sqlgen.Query {
	limit := 1
	where := &sqlgen.WhereClause{
		Conditions: []sqlgen.Condition{
			{Field: finder.Field, Operator: "=", Value: finder.Value},
		},
		Operator: "AND",
	}
	return b.generator.GenerateSelect(finder.Model.Table, columns, where, nil, &limit)
}

// SelectIDByParent builds the parent-scoped child lookup for a relation
// field declared on the parent model. With no finder the statement
// resolves the first connected child; ordering is the child's primary
// key ascending so the pick is stable within a transaction.
func (b *WriteBuilder) SelectIDByParent(field *schema.RelationField, parentID record.ID, finder *record.Finder) (*sqlgen.Query, error) {
	parent := field.Model
	child := field.RelatedModel
	rel := field.Relation

	// Foreign key on the child row: a plain filter is enough.
	if rel.Kind == schema.RelationKindInline && rel.ForeignKeyModel == child {
		limit := 1
		conditions := []sqlgen.Condition{
			{Field: rel.ForeignKeyColumn, Operator: "=", Value: parentID},
		}
		if finder != nil {
			conditions = append(conditions, sqlgen.Condition{Field: finder.Field, Operator: "=", Value: finder.Value})
		}
		where := &sqlgen.WhereClause{Conditions: conditions, Operator: "AND"}
		orderBy := []sqlgen.OrderBy{{Field: child.IDColumn, Direction: "ASC"}}
		return b.generator.GenerateSelect(child.Table, []string{child.IDColumn}, where, orderBy, &limit), nil
	}

	// Foreign key on the parent row, or a junction table: scope the
	// child select with a subquery over the linking column.
	var subSQL string
	switch rel.Kind {
	case schema.RelationKindInline:
		subSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
			b.quote(rel.ForeignKeyColumn),
			b.quote(parent.Table),
			b.quote(parent.IDColumn),
			b.generator.Placeholder(1))
	case schema.RelationKindTable:
		parentCol, err := rel.JunctionColumnFor(parent)
		if err != nil {
			return nil, err
		}
		childCol, err := rel.JunctionColumnFor(child)
		if err != nil {
			return nil, err
		}
		subSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
			b.quote(childCol),
			b.quote(rel.JunctionTable),
			b.quote(parentCol),
			b.generator.Placeholder(1))
	default:
		return nil, fmt.Errorf("unsupported relation kind: %s", rel.Kind)
	}

	args := []interface{}{parentID}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)",
		child.IDColumn,
		b.quote(child.Table),
		b.quote(child.IDColumn),
		subSQL)
	if finder != nil {
		sql += fmt.Sprintf(" AND %s = %s", b.quote(finder.Field), b.generator.Placeholder(2))
		args = append(args, finder.Value)
	}
	sql += fmt.Sprintf(" ORDER BY %s ASC LIMIT 1", b.quote(child.IDColumn))

	return &sqlgen.Query{SQL: sql, Args: args}, nil
}

// ConnectedProbe builds the read whose non-empty result proves that
// parent and child are linked through the relation field.
func (b *WriteBuilder) ConnectedProbe(field *schema.RelationField, parentID, childID record.ID) (*sqlgen.Query, error) {
	parent := field.Model
	child := field.RelatedModel
	rel := field.Relation
	limit := 1

	switch rel.Kind {
	case schema.RelationKindInline:
		if rel.ForeignKeyModel == child {
			where := &sqlgen.WhereClause{
				Conditions: []sqlgen.Condition{
					{Field: child.IDColumn, Operator: "=", Value: childID},
					{Field: rel.ForeignKeyColumn, Operator: "=", Value: parentID},
				},
				Operator: "AND",
			}
			return b.generator.GenerateSelect(child.Table, []string{child.IDColumn}, where, nil, &limit), nil
		}
		where := &sqlgen.WhereClause{
			Conditions: []sqlgen.Condition{
				{Field: parent.IDColumn, Operator: "=", Value: parentID},
				{Field: rel.ForeignKeyColumn, Operator: "=", Value: childID},
			},
			Operator: "AND",
		}
		return b.generator.GenerateSelect(parent.Table, []string{rel.ForeignKeyColumn}, where, nil, &limit), nil
	case schema.RelationKindTable:
		parentCol, err := rel.JunctionColumnFor(parent)
		if err != nil {
			return nil, err
		}
		childCol, err := rel.JunctionColumnFor(child)
		if err != nil {
			return nil, err
		}
		where := &sqlgen.WhereClause{
			Conditions: []sqlgen.Condition{
				{Field: parentCol, Operator: "=", Value: parentID},
				{Field: childCol, Operator: "=", Value: childID},
			},
			Operator: "AND",
		}
		return b.generator.GenerateSelect(rel.JunctionTable, []string{childCol}, where, nil, &limit), nil
	default:
		return nil, fmt.Errorf("unsupported relation kind: %s", rel.Kind)
	}
}

// ViolationProbe builds the read that checks whether any row declaring
// the given relation field still references one of the candidate keys.
// The field is declared on the dependent model; the candidate keys
// belong to field.RelatedModel.
func (b *WriteBuilder) ViolationProbe(field *schema.RelationField, ids []record.ID) (*sqlgen.Query, error) {
	rel := field.Relation
	limit := 1

	switch rel.Kind {
	case schema.RelationKindInline:
		if rel.ForeignKeyModel == field.Model {
			// Dependent rows hold the foreign key.
			where := &sqlgen.WhereClause{
				Conditions: []sqlgen.Condition{
					{Field: rel.ForeignKeyColumn, Operator: "IN", Value: idValues(ids)},
				},
				Operator: "AND",
			}
			return b.generator.GenerateSelect(field.Model.Table, []string{field.Model.IDColumn}, where, nil, &limit), nil
		}
		// The candidate rows hold the foreign key. A non-null value
		// means a dependent row on the other side would be orphaned.
		where := &sqlgen.WhereClause{
			Conditions: []sqlgen.Condition{
				{Field: field.RelatedModel.IDColumn, Operator: "IN", Value: idValues(ids)},
				{Field: rel.ForeignKeyColumn, Operator: "IS NOT NULL"},
			},
			Operator: "AND",
		}
		return b.generator.GenerateSelect(field.RelatedModel.Table, []string{rel.ForeignKeyColumn}, where, nil, &limit), nil
	case schema.RelationKindTable:
		col, err := rel.JunctionColumnFor(field.RelatedModel)
		if err != nil {
			return nil, err
		}
		where := &sqlgen.WhereClause{
			Conditions: []sqlgen.Condition{
				{Field: col, Operator: "IN", Value: idValues(ids)},
			},
			Operator: "AND",
		}
		return b.generator.GenerateSelect(rel.JunctionTable, []string{col}, where, nil, &limit), nil
	default:
		return nil, fmt.Errorf("unsupported relation kind: %s", rel.Kind)
	}
}

// DeleteMany builds the ordered delete statements for a set of keys on
// one model: junction-table cleanup for every table relation the model
// participates in, then the row delete itself. The returned order is
// safe to execute front to back because link rows go first.
func (b *WriteBuilder) DeleteMany(model *schema.Model, ids []record.ID) ([]*sqlgen.Query, error) {
	var queries []*sqlgen.Query

	seen := make(map[*schema.Relation]bool)
	fields := append([]*schema.RelationField{}, model.RelationFields()...)
	fields = append(fields, model.RelatedFields()...)
	for _, rf := range fields {
		rel := rf.Relation
		if rel.Kind != schema.RelationKindTable || seen[rel] {
			continue
		}
		seen[rel] = true
		col, err := rel.JunctionColumnFor(model)
		if err != nil {
			return nil, err
		}
		where := &sqlgen.WhereClause{
			Conditions: []sqlgen.Condition{
				{Field: col, Operator: "IN", Value: idValues(ids)},
			},
			Operator: "AND",
		}
		queries = append(queries, b.generator.GenerateDelete(rel.JunctionTable, where))
	}

	where := &sqlgen.WhereClause{
		Conditions: []sqlgen.Condition{
			{Field: model.IDColumn, Operator: "IN", Value: idValues(ids)},
		},
		Operator: "AND",
	}
	queries = append(queries, b.generator.GenerateDelete(model.Table, where))

	return queries, nil
}

func (b *WriteBuilder) quote(name string) string {
	return b.generator.QuoteIdentifier(name)
}

func idValues(ids []record.ID) []interface{} {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
