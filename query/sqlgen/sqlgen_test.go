package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenerator(t *testing.T) {
	assert.IsType(t, &PostgresGenerator{}, NewGenerator("postgres"))
	assert.IsType(t, &PostgresGenerator{}, NewGenerator("postgresql"))
	assert.IsType(t, &MySQLGenerator{}, NewGenerator("mysql"))
	assert.IsType(t, &SQLiteGenerator{}, NewGenerator("sqlite"))
	assert.IsType(t, &PostgresGenerator{}, NewGenerator("unknown"))
}

func TestGenerateSelect(t *testing.T) {
	limit := 1
	where := &WhereClause{
		Conditions: []Condition{
			{Field: "email", Operator: "=", Value: "ada@example.com"},
		},
		Operator: "AND",
	}

	t.Run("Postgres", func(t *testing.T) {
		g := NewGenerator("postgres")
		query := g.GenerateSelect("users", nil, where, nil, &limit)
		assert.Equal(t, `SELECT * FROM "users" WHERE "email" = $1 LIMIT $2`, query.SQL)
		assert.Equal(t, []interface{}{"ada@example.com", 1}, query.Args)
	})

	t.Run("MySQL", func(t *testing.T) {
		g := NewGenerator("mysql")
		query := g.GenerateSelect("users", []string{"id"}, where, nil, &limit)
		assert.Equal(t, "SELECT id FROM `users` WHERE `email` = ? LIMIT ?", query.SQL)
	})

	t.Run("OrderBy", func(t *testing.T) {
		g := NewGenerator("postgres")
		orderBy := []OrderBy{{Field: "id", Direction: "ASC"}}
		query := g.GenerateSelect("posts", []string{"id"}, where, orderBy, &limit)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "email" = $1 ORDER BY "id" ASC LIMIT $2`, query.SQL)
	})

	t.Run("InCondition", func(t *testing.T) {
		g := NewGenerator("postgres")
		inWhere := &WhereClause{
			Conditions: []Condition{
				{Field: "author_id", Operator: "IN", Value: []interface{}{int64(1), int64(2)}},
			},
			Operator: "AND",
		}
		query := g.GenerateSelect("posts", []string{"id"}, inWhere, nil, &limit)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "author_id" IN ($1, $2) LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(1), int64(2), 1}, query.Args)
	})

	t.Run("NullConditions", func(t *testing.T) {
		g := NewGenerator("postgres")
		nullWhere := &WhereClause{
			Conditions: []Condition{
				{Field: "author_id", Operator: "IS NOT NULL"},
			},
			Operator: "AND",
		}
		query := g.GenerateSelect("posts", []string{"id"}, nullWhere, nil, nil)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "author_id" IS NOT NULL`, query.SQL)
		assert.Empty(t, query.Args)
	})
}

func TestGenerateDelete(t *testing.T) {
	where := &WhereClause{
		Conditions: []Condition{
			{Field: "id", Operator: "IN", Value: []interface{}{int64(1)}},
		},
		Operator: "AND",
	}

	t.Run("Postgres", func(t *testing.T) {
		g := NewGenerator("postgres")
		query := g.GenerateDelete("users", where)
		assert.Equal(t, `DELETE FROM "users" WHERE "id" IN ($1)`, query.SQL)
		assert.Equal(t, []interface{}{int64(1)}, query.Args)
	})

	t.Run("MySQL", func(t *testing.T) {
		g := NewGenerator("mysql")
		query := g.GenerateDelete("users", where)
		assert.Equal(t, "DELETE FROM `users` WHERE `id` IN (?)", query.SQL)
	})

	t.Run("EmptyWhereNeverDeletesAll", func(t *testing.T) {
		g := NewGenerator("postgres")
		query := g.GenerateDelete("users", nil)
		assert.Equal(t, `DELETE FROM "users" WHERE 1=0`, query.SQL)
		assert.Empty(t, query.Args)
	})
}
