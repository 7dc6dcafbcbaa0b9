package executor

import (
	"context"
	"errors"

	"github.com/ormkit/sqlwriter/internal/debug"
	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// Execute deletes the single record matched by the finder and returns
// its pre-deletion snapshot. The delete is rejected with a
// RelationViolationError when a required relation on another model still
// references the record.
func (e *TxExecutor) Execute(ctx context.Context, finder *record.Finder) (*record.Record, error) {
	model := finder.Model

	rec, err := e.FindRecord(ctx, finder)
	if err != nil {
		return nil, err
	}
	id, err := rec.ID(model)
	if err != nil {
		return nil, err
	}

	if err := e.checkRelationViolations(ctx, model, []record.ID{id}); err != nil {
		return nil, err
	}

	deletes, err := e.writes.DeleteMany(model, []record.ID{id})
	if err != nil {
		return nil, err
	}
	for _, del := range deletes {
		if err := e.execDelete(ctx, del); err != nil {
			return nil, err
		}
	}

	debug.Debug("record deleted", "model", model.Name, "id", id)
	return rec, nil
}

// ExecuteNested deletes one record related to the given parent key.
// With a finder the finder picks the child; without one the first child
// connected to the parent is deleted. Fails when the finder matches no
// row, when the child is not connected to the parent, or when deleting
// the child would orphan a required relation.
func (e *TxExecutor) ExecuteNested(ctx context.Context, parentID record.ID, actions NestedActions, finder *record.Finder, field *schema.RelationField) error {
	// Existence pre-check: a missing explicit record is a plain not
	// found, not a connectivity failure.
	if finder != nil {
		if _, err := e.FindID(ctx, finder); err != nil {
			return err
		}
	}

	childID, err := e.FindIDByParent(ctx, field, parentID, finder)
	if err != nil {
		var notConnected *NotConnectedError
		if errors.As(err, &notConnected) && notConnected.ParentWhere == nil {
			return withParentFinder(notConnected, field.Model, parentID)
		}
		return err
	}

	probe, err := actions.ConnectedProbe(parentID, childID)
	if err != nil {
		return err
	}
	ids, err := e.SelectIDs(ctx, probe)
	if err != nil {
		return err
	}
	if err := actions.CheckConnected(parentID, childID, len(ids) > 0); err != nil {
		return err
	}

	related := field.RelatedModel
	if err := e.checkRelationViolations(ctx, related, []record.ID{childID}); err != nil {
		return err
	}

	deletes, err := e.writes.DeleteMany(related, []record.ID{childID})
	if err != nil {
		return err
	}
	for _, del := range deletes {
		if err := e.execDelete(ctx, del); err != nil {
			return err
		}
	}

	debug.Debug("nested record deleted", "model", related.Name, "id", childID, "parent", field.Model.Name)
	return nil
}

// checkRelationViolations probes every required relation field pointing
// at the model and fails on the first one that still references a
// candidate key. The probes run before any write so a rejected delete
// issues no statements.
func (e *TxExecutor) checkRelationViolations(ctx context.Context, model *schema.Model, ids []record.ID) error {
	for _, rf := range model.RelatedFields() {
		if !rf.IsRequired {
			continue
		}
		probe, err := e.writes.ViolationProbe(rf, ids)
		if err != nil {
			return err
		}
		found, err := e.SelectIDs(ctx, probe)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return &RelationViolationError{
				RelationName: rf.Relation.Name,
				ModelAName:   rf.Model.Name,
				ModelBName:   rf.RelatedModel.Name,
			}
		}
	}
	return nil
}
