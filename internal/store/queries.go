package store

import (
	"fmt"
	"strings"
)

// Statement builders for the generic single-table reads and deletes. Table
// and column names always come from constants in this package, never from
// request input.

var entityColumns = []string{"id", "name", "description", "type"}

func selectAll(table string, columns ...string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(columns, ", "), table)
}

func selectByID(table string, columns ...string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id=$1", strings.Join(columns, ", "), table)
}

func deleteByID(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id=$1", table)
}

func insertReturningID(table string, columns ...string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// updateByID sets columns $2..$n for the row whose id is $1.
func updateByID(table string, columns ...string) string {
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s=$%d", column, i+2)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id=$1", table, strings.Join(assignments, ", "))
}

func qualified(alias string, columns ...string) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = alias + "." + column
	}
	return out
}
