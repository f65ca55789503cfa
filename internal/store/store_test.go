package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return parsed
}

func TestDurationDays(t *testing.T) {
	start := date(t, "2024-06-15")
	end := date(t, "2024-06-30")

	if got := DurationDays(start, end); got != 15 {
		t.Fatalf("expected 15 days, got %d", got)
	}
	if got := DurationDays(end, start); got != 15 {
		t.Fatalf("expected symmetric 15 days, got %d", got)
	}
	if got := DurationDays(start, start); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestDurationDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)
	if got := DurationDays(start, end); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}

	// Calendar fields are read in the value's own zone.
	zone := time.FixedZone("UTC-5", -5*60*60)
	start = time.Date(2024, 3, 9, 8, 0, 0, 0, zone)
	end = time.Date(2024, 3, 11, 7, 0, 0, 0, zone)
	if got := DurationDays(start, end); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
}

func TestDurationDaysSymmetry(t *testing.T) {
	base := date(t, "2023-12-20")
	for offset := -40; offset <= 40; offset += 7 {
		other := base.AddDate(0, 0, offset)
		if DurationDays(base, other) != DurationDays(other, base) {
			t.Fatalf("asymmetric duration for offset %d", offset)
		}
	}
}

func TestNewTaskComputesDuration(t *testing.T) {
	task := newTask(Task{StartDate: date(t, "2024-01-30"), EndDate: date(t, "2024-03-01")})
	if task.Duration != 31 {
		t.Fatalf("expected 31 days, got %d", task.Duration)
	}
}

func TestQueryBuilders(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{selectAll("tags", entityColumns...), "SELECT id, name, description, type FROM tags ORDER BY id"},
		{selectByID("roadmaps", "id", "name"), "SELECT id, name FROM roadmaps WHERE id=$1"},
		{deleteByID("task_statuses"), "DELETE FROM task_statuses WHERE id=$1"},
		{insertReturningID("tags", "name", "description", "type"), "INSERT INTO tags (name, description, type) VALUES ($1, $2, $3) RETURNING id"},
		{updateByID("tags", "name", "description"), "UPDATE tags SET name=$2, description=$3 WHERE id=$1"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestClassify(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", TableName: "task_tags"}

	err := classify(fmt.Errorf("exec: %w", fk), true)
	table, ok := IsConflict(err)
	if !ok || table != "task_tags" {
		t.Fatalf("expected conflict on task_tags, got %v", err)
	}

	var refErr *ReferenceError
	if !errors.As(classify(fk, false), &refErr) || refErr.Table != "task_tags" {
		t.Fatalf("expected reference error, got %v", classify(fk, false))
	}

	var dupErr *DuplicateError
	if !errors.As(classify(&pgconn.PgError{Code: "23505", TableName: "tags"}, false), &dupErr) {
		t.Fatal("expected duplicate error")
	}

	var checkErr *CheckError
	if !errors.As(classify(&pgconn.PgError{Code: "23514", TableName: "tasks", ConstraintName: "tasks_date_order"}, false), &checkErr) {
		t.Fatal("expected check error")
	}

	plain := errors.New("connection reset")
	if classify(plain, false) != plain {
		t.Fatal("unclassified errors must pass through")
	}
	if classify(nil, false) != nil {
		t.Fatal("nil must stay nil")
	}
}
