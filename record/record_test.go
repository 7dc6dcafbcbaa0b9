package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormkit/sqlwriter/schema"
)

func userModel() *schema.Model {
	return &schema.Model{Name: "User", Table: "users", IDColumn: "id"}
}

func TestRecordID(t *testing.T) {
	user := userModel()
	rec := &Record{
		Columns: []string{"id", "name"},
		Values:  []interface{}{int64(1), "Ada"},
	}

	id, err := rec.ID(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rec = &Record{Columns: []string{"name"}, Values: []interface{}{"Ada"}}
	_, err = rec.ID(user)
	assert.Error(t, err)
}

func TestRecordGet(t *testing.T) {
	rec := &Record{
		Columns: []string{"id", "name"},
		Values:  []interface{}{int64(1), "Ada"},
	}

	assert.Equal(t, "Ada", rec.Get("name"))
	assert.Nil(t, rec.Get("email"))
}

func TestFinder(t *testing.T) {
	user := userModel()

	finder := NewFinder(user, "email", "ada@example.com")
	assert.Same(t, user, finder.Model)
	assert.Equal(t, "email", finder.Field)

	byID := ByID(user, int64(1))
	assert.Equal(t, "id", byID.Field)
	assert.Equal(t, int64(1), byID.Value)
}
