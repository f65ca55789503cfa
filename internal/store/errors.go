package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("not found")

// ConflictError reports a delete blocked by a row in Table that still
// references the target.
type ConflictError struct {
	Table string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("still in use by %s", e.Table)
}

// ReferenceError reports a write whose foreign key names a missing row.
type ReferenceError struct {
	Table string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced row missing for %s", e.Table)
}

// DuplicateError reports a unique constraint violation in Table.
type DuplicateError struct {
	Table string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate row in %s", e.Table)
}

// CheckError reports a check constraint violation.
type CheckError struct {
	Table      string
	Constraint string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %s failed on %s", e.Constraint, e.Table)
}

// classify turns driver errors into the package's error types. onDelete
// selects how a foreign key violation is read: on delete it means the row is
// still referenced, on insert/update it means a referenced row is missing.
func classify(err error, onDelete bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlStateForeignKeyViolation:
		if onDelete {
			return &ConflictError{Table: pgErr.TableName}
		}
		return &ReferenceError{Table: pgErr.TableName}
	case sqlStateUniqueViolation:
		return &DuplicateError{Table: pgErr.TableName}
	case sqlStateCheckViolation:
		return &CheckError{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	}
	return err
}

// IsConflict reports whether err is a blocked delete and returns the table.
func IsConflict(err error) (string, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Table, true
	}
	return "", false
}
