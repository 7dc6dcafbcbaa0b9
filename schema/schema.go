// Package schema contains the model, field and relation descriptors the
// write path operates on. Descriptors are built by the caller (codegen or
// introspection) before any query runs and are read-only afterwards.
package schema

import "fmt"

// Schema is a registry of models sharing relation descriptors.
type Schema struct {
	models map[string]*Model
	order  []string
}

// NewSchema creates an empty schema registry.
func NewSchema() *Schema {
	return &Schema{
		models: make(map[string]*Model),
	}
}

// AddModel registers a model. Registering two models with the same name
// is a programming error.
func (s *Schema) AddModel(m *Model) error {
	if _, ok := s.models[m.Name]; ok {
		return fmt.Errorf("model %s already registered", m.Name)
	}
	m.schema = s
	s.models[m.Name] = m
	s.order = append(s.order, m.Name)
	return nil
}

// Model returns a registered model by name.
func (s *Schema) Model(name string) (*Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Models returns all registered models in registration order.
func (s *Schema) Models() []*Model {
	models := make([]*Model, 0, len(s.order))
	for _, name := range s.order {
		models = append(models, s.models[name])
	}
	return models
}

// Model describes a row type: its table, primary key, scalar fields and
// the relation fields declared on it.
type Model struct {
	Name     string
	Table    string
	IDColumn string
	Fields   []Field

	relationFields []*RelationField
	schema         *Schema
}

// Field describes a scalar field on a model.
type Field struct {
	Name       string
	Column     string
	Type       string
	IsRequired bool
	IsUnique   bool
}

// AddRelationField declares a relation field on the model and wires the
// shared relation descriptor. The field's Model pointer is set here.
func (m *Model) AddRelationField(f *RelationField) {
	f.Model = m
	m.relationFields = append(m.relationFields, f)
}

// RelationFields returns the relation fields declared on this model.
func (m *Model) RelationFields() []*RelationField {
	return m.relationFields
}

// RelatedFields returns the relation fields declared on other models that
// point at this model. The violation checker walks these to find rows
// that would be orphaned by a delete.
func (m *Model) RelatedFields() []*RelationField {
	if m.schema == nil {
		return nil
	}
	var fields []*RelationField
	for _, name := range m.schema.order {
		other := m.schema.models[name]
		if other == m {
			continue
		}
		for _, rf := range other.relationFields {
			if rf.RelatedModel == m {
				fields = append(fields, rf)
			}
		}
	}
	return fields
}

// RelationKind distinguishes how a relation is stored.
type RelationKind string

const (
	// RelationKindInline stores the link as a foreign-key column on one
	// model's table.
	RelationKindInline RelationKind = "inline"
	// RelationKindTable stores the link as rows in a junction table.
	RelationKindTable RelationKind = "table"
)

// Relation describes the physical storage of a link between two models.
// Both relation fields of a relation share one Relation value.
type Relation struct {
	Name string
	Kind RelationKind

	// Inline relations: the foreign key lives in ForeignKeyColumn on
	// ForeignKeyModel's table and references the other model's id.
	ForeignKeyModel  *Model
	ForeignKeyColumn string

	// Table relations: JunctionTable holds one row per link.
	JunctionTable string
	// JunctionColumns maps a model name to the junction-table column
	// referencing that model's id.
	JunctionColumns map[string]string
}

// JunctionColumnFor returns the junction-table column referencing the
// given model's id. Only meaningful for table relations.
func (r *Relation) JunctionColumnFor(m *Model) (string, error) {
	col, ok := r.JunctionColumns[m.Name]
	if !ok {
		return "", fmt.Errorf("relation %s has no junction column for model %s", r.Name, m.Name)
	}
	return col, nil
}

// RelationField is one directed side of a relation as declared on a
// model. Model is the declaring side, RelatedModel the opposite side.
type RelationField struct {
	Name         string
	Model        *Model
	RelatedModel *Model
	Relation     *Relation

	// IsRequired means the declaring side must always have a linked row,
	// so deleting the related row would orphan it.
	IsRequired bool
	IsList     bool
}
