// Package executor runs delete operations against an open transaction,
// sequencing the lookups and integrity checks around the row deletes.
package executor

import (
	"errors"
	"fmt"

	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

// Sentinel errors for the domain failures a delete can hit.
var (
	// ErrNotFound indicates that a finder matched zero rows.
	ErrNotFound = errors.New("sqlwriter: record not found")

	// ErrNotConnected indicates that parent and child are not linked
	// through the claimed relation.
	ErrNotConnected = errors.New("sqlwriter: records not connected")

	// ErrRelationViolation indicates that the delete would orphan a
	// required relation.
	ErrRelationViolation = errors.New("sqlwriter: relation violation")
)

// FinderInfo is a human-identifying descriptor of a lookup, attached to
// domain errors so callers can tell which row a failure is about.
type FinderInfo struct {
	Model string
	Field string
	Value interface{}
}

// String implements fmt.Stringer.
func (f *FinderInfo) String() string {
	return fmt.Sprintf("%s.%s = %v", f.Model, f.Field, f.Value)
}

// FinderInfoFor describes an explicit finder.
func FinderInfoFor(finder *record.Finder) *FinderInfo {
	return &FinderInfo{
		Model: finder.Model.Name,
		Field: finder.Field,
		Value: finder.Value,
	}
}

// FinderInfoForID describes a row by its primary key. Used when only the
// key, not a full lookup descriptor, is known.
func FinderInfoForID(model *schema.Model, id record.ID) *FinderInfo {
	return &FinderInfo{
		Model: model.Name,
		Field: model.IDColumn,
		Value: id,
	}
}

// NotFoundError is returned when a lookup criterion matched zero rows.
type NotFoundError struct {
	Model string
	Where *FinderInfo
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Where != nil {
		return fmt.Sprintf("no %s record found for %s", e.Model, e.Where)
	}
	return fmt.Sprintf("no %s record found", e.Model)
}

// Is reports whether the error matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a NotFoundError for a finder.
func NewNotFoundError(finder *record.Finder) *NotFoundError {
	return &NotFoundError{
		Model: finder.Model.Name,
		Where: FinderInfoFor(finder),
	}
}

// NotConnectedError is returned when a resolved child exists but is not
// linked to the claimed parent, or when a parent-scoped lookup found no
// linked row. ParentWhere and ChildWhere are optional; a lookup that
// only knew the parent key leaves ParentWhere nil until the caller
// enriches the error.
type NotConnectedError struct {
	RelationName string
	ParentName   string
	ParentWhere  *FinderInfo
	ChildName    string
	ChildWhere   *FinderInfo
}

// Error implements the error interface.
func (e *NotConnectedError) Error() string {
	msg := fmt.Sprintf("no %s record connected to %s through relation %s", e.ChildName, e.ParentName, e.RelationName)
	if e.ParentWhere != nil {
		msg += fmt.Sprintf(" (parent: %s)", e.ParentWhere)
	}
	if e.ChildWhere != nil {
		msg += fmt.Sprintf(" (child: %s)", e.ChildWhere)
	}
	return msg
}

// Is reports whether the error matches ErrNotConnected.
func (e *NotConnectedError) Is(target error) bool {
	return target == ErrNotConnected
}

// withParentFinder returns a copy of the error carrying a parent
// descriptor. The original error value is left untouched.
func withParentFinder(e *NotConnectedError, parent *schema.Model, parentID record.ID) *NotConnectedError {
	return &NotConnectedError{
		RelationName: e.RelationName,
		ParentName:   e.ParentName,
		ParentWhere:  FinderInfoForID(parent, parentID),
		ChildName:    e.ChildName,
		ChildWhere:   e.ChildWhere,
	}
}

// RelationViolationError is returned when deleting the candidate keys
// would orphan a required relation.
type RelationViolationError struct {
	RelationName string
	ModelAName   string
	ModelBName   string
}

// Error implements the error interface.
func (e *RelationViolationError) Error() string {
	return fmt.Sprintf("relation %s between %s and %s would be violated", e.RelationName, e.ModelAName, e.ModelBName)
}

// Is reports whether the error matches ErrRelationViolation.
func (e *RelationViolationError) Is(target error) bool {
	return target == ErrRelationViolation
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotConnected checks if an error is a records-not-connected error.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsRelationViolation checks if an error is a relation violation.
func IsRelationViolation(err error) bool {
	return errors.Is(err, ErrRelationViolation)
}
