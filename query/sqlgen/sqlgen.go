// Package sqlgen renders SQL statements for the supported database
// providers.
package sqlgen

import (
	"fmt"
	"strings"
)

// Query represents a SQL statement with its arguments.
type Query struct {
	SQL  string
	Args []interface{}
}

// WhereClause combines conditions with one logical operator.
type WhereClause struct {
	Conditions []Condition
	Operator   string // "AND" or "OR"
}

// Condition is a single comparison in a WHERE clause.
type Condition struct {
	Field    string
	Operator string // "=", "!=", "IN", "IS NULL", ...
	Value    interface{}
}

// OrderBy represents an ORDER BY clause.
type OrderBy struct {
	Field     string
	Direction string // "ASC" or "DESC"
}

// Generator renders statements for a specific provider.
type Generator interface {
	GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit *int) *Query
	GenerateDelete(table string, where *WhereClause) *Query
	Placeholder(n int) string
	QuoteIdentifier(name string) string
}

// NewGenerator creates a generator for the given provider.
func NewGenerator(provider string) Generator {
	switch provider {
	case "postgresql", "postgres":
		return &PostgresGenerator{}
	case "mysql":
		return &MySQLGenerator{}
	case "sqlite":
		return &SQLiteGenerator{}
	default:
		return &PostgresGenerator{} // default to postgres
	}
}

// PostgresGenerator generates PostgreSQL SQL.
type PostgresGenerator struct{}

func (g *PostgresGenerator) GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit *int) *Query {
	return generateSelect(g, table, columns, where, orderBy, limit)
}

func (g *PostgresGenerator) GenerateDelete(table string, where *WhereClause) *Query {
	return generateDelete(g, table, where)
}

func (g *PostgresGenerator) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (g *PostgresGenerator) QuoteIdentifier(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

// MySQLGenerator generates MySQL SQL.
type MySQLGenerator struct{}

func (g *MySQLGenerator) GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit *int) *Query {
	return generateSelect(g, table, columns, where, orderBy, limit)
}

func (g *MySQLGenerator) GenerateDelete(table string, where *WhereClause) *Query {
	return generateDelete(g, table, where)
}

func (g *MySQLGenerator) Placeholder(n int) string {
	return "?"
}

func (g *MySQLGenerator) QuoteIdentifier(name string) string {
	return fmt.Sprintf("`%s`", name)
}

// SQLiteGenerator generates SQLite SQL.
type SQLiteGenerator struct{}

func (g *SQLiteGenerator) GenerateSelect(table string, columns []string, where *WhereClause, orderBy []OrderBy, limit *int) *Query {
	return generateSelect(g, table, columns, where, orderBy, limit)
}

func (g *SQLiteGenerator) GenerateDelete(table string, where *WhereClause) *Query {
	return generateDelete(g, table, where)
}

func (g *SQLiteGenerator) Placeholder(n int) string {
	return "?"
}

func (g *SQLiteGenerator) QuoteIdentifier(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

func generateSelect(g Generator, table string, columns []string, where *WhereClause, orderBy []OrderBy, limit *int) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	// SELECT columns
	if len(columns) == 0 {
		parts = append(parts, "SELECT *")
	} else {
		parts = append(parts, fmt.Sprintf("SELECT %s", strings.Join(columns, ", ")))
	}

	// FROM table
	parts = append(parts, fmt.Sprintf("FROM %s", g.QuoteIdentifier(table)))

	// WHERE clause
	if where != nil && len(where.Conditions) > 0 {
		whereSQL, whereArgs := buildWhere(g, where, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	// ORDER BY
	if len(orderBy) > 0 {
		orderParts := make([]string, len(orderBy))
		for i, ob := range orderBy {
			direction := "ASC"
			if ob.Direction == "DESC" || ob.Direction == "desc" {
				direction = "DESC"
			}
			orderParts[i] = fmt.Sprintf("%s %s", g.QuoteIdentifier(ob.Field), direction)
		}
		parts = append(parts, "ORDER BY "+strings.Join(orderParts, ", "))
	}

	// LIMIT
	if limit != nil && *limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %s", g.Placeholder(argIndex)))
		args = append(args, *limit)
	}

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

func generateDelete(g Generator, table string, where *WhereClause) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, fmt.Sprintf("DELETE FROM %s", g.QuoteIdentifier(table)))

	// WHERE clause
	if where != nil && len(where.Conditions) > 0 {
		whereSQL, whereArgs := buildWhere(g, where, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	} else {
		// Safety: require WHERE clause for DELETE
		parts = append(parts, "WHERE 1=0") // Prevent accidental deletion of all rows
	}

	return &Query{
		SQL:  strings.Join(parts, " "),
		Args: args,
	}
}

func buildWhere(g Generator, where *WhereClause, argIndex *int) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	op := "AND"
	if where.Operator == "OR" || where.Operator == "or" {
		op = "OR"
	}

	for _, cond := range where.Conditions {
		switch cond.Operator {
		case "=", "!=", ">", "<", ">=", "<=":
			conditions = append(conditions, fmt.Sprintf("%s %s %s", g.QuoteIdentifier(cond.Field), cond.Operator, g.Placeholder(*argIndex)))
			args = append(args, cond.Value)
			(*argIndex)++
		case "IN":
			if values, ok := cond.Value.([]interface{}); ok && len(values) > 0 {
				placeholders := make([]string, len(values))
				for i := range values {
					placeholders[i] = g.Placeholder(*argIndex)
					args = append(args, values[i])
					(*argIndex)++
				}
				conditions = append(conditions, fmt.Sprintf("%s IN (%s)", g.QuoteIdentifier(cond.Field), strings.Join(placeholders, ", ")))
			}
		case "IS NULL":
			conditions = append(conditions, fmt.Sprintf("%s IS NULL", g.QuoteIdentifier(cond.Field)))
		case "IS NOT NULL":
			conditions = append(conditions, fmt.Sprintf("%s IS NOT NULL", g.QuoteIdentifier(cond.Field)))
		}
	}

	return strings.Join(conditions, " "+op+" "), args
}
