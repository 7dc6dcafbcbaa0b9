package executor

import (
	"github.com/ormkit/sqlwriter/query/builder"
	"github.com/ormkit/sqlwriter/query/sqlgen"
	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// NestedActions supplies the relation-specific connectivity semantics of
// a nested delete: how to prove that parent and child are linked, and
// what failure to report when they are not. Implementations exist per
// relation kind and are selected before the operation runs.
type NestedActions interface {
	// ConnectedProbe builds the read whose non-empty result proves
	// parent and child are connected.
	ConnectedProbe(parentID, childID record.ID) (*sqlgen.Query, error)

	// CheckConnected interprets whether the probe returned any row.
	CheckConnected(parentID, childID record.ID, found bool) error
}

// ActionsFor selects the NestedActions implementation for a relation
// field declared on the parent model.
func ActionsFor(writes *builder.WriteBuilder, field *schema.RelationField) NestedActions {
	if field.Relation.Kind == schema.RelationKindTable {
		return &junctionActions{writes: writes, field: field}
	}
	return &foreignKeyActions{writes: writes, field: field}
}

// foreignKeyActions checks connectivity through an inline foreign-key
// column.
type foreignKeyActions struct {
	writes *builder.WriteBuilder
	field  *schema.RelationField
}

func (a *foreignKeyActions) ConnectedProbe(parentID, childID record.ID) (*sqlgen.Query, error) {
	return a.writes.ConnectedProbe(a.field, parentID, childID)
}

func (a *foreignKeyActions) CheckConnected(parentID, childID record.ID, found bool) error {
	if found {
		return nil
	}
	return notConnected(a.field, parentID, childID)
}

// junctionActions checks connectivity through a junction-table row.
type junctionActions struct {
	writes *builder.WriteBuilder
	field  *schema.RelationField
}

func (a *junctionActions) ConnectedProbe(parentID, childID record.ID) (*sqlgen.Query, error) {
	return a.writes.ConnectedProbe(a.field, parentID, childID)
}

func (a *junctionActions) CheckConnected(parentID, childID record.ID, found bool) error {
	if found {
		return nil
	}
	return notConnected(a.field, parentID, childID)
}

func notConnected(field *schema.RelationField, parentID, childID record.ID) error {
	return &NotConnectedError{
		RelationName: field.Relation.Name,
		ParentName:   field.Model.Name,
		ParentWhere:  FinderInfoForID(field.Model, parentID),
		ChildName:    field.RelatedModel.Name,
		ChildWhere:   FinderInfoForID(field.RelatedModel, childID),
	}
}
