package store

import (
	"context"
	"database/sql"
	"fmt"
)

const assigneesTable = "assignees"

var assigneeColumns = append(append([]string{}, entityColumns...), "image_id")

func scanAssignee(scanner interface{ Scan(...any) error }) (Assignee, error) {
	var item Assignee
	var imageID sql.NullString
	if err := scanner.Scan(&item.ID, &item.Name, &item.Description, &item.Type, &imageID); err != nil {
		return Assignee{}, err
	}
	if imageID.Valid {
		item.ImageID = &imageID.String
	}
	return item, nil
}

func (s *PostgresStore) ListAssignees(ctx context.Context) ([]Assignee, error) {
	rows, err := s.db.QueryContext(ctx, selectAll(assigneesTable, assigneeColumns...))
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	defer rows.Close()

	items := make([]Assignee, 0)
	for rows.Next() {
		item, err := scanAssignee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignee: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignees: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetAssignee(ctx context.Context, id int64) (Assignee, error) {
	item, err := scanAssignee(s.db.QueryRowContext(ctx, selectByID(assigneesTable, assigneeColumns...), id))
	if err != nil {
		return Assignee{}, fmt.Errorf("get assignee %d: %w", id, classify(err, false))
	}
	return item, nil
}

func (s *PostgresStore) CreateAssignee(ctx context.Context, fields AssigneeFields) (Assignee, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, insertReturningID(assigneesTable, "name", "description", "type", "image_id"),
		fields.Name, fields.Description, fields.Type, fields.ImageID,
	).Scan(&id)
	if err != nil {
		return Assignee{}, fmt.Errorf("insert assignee: %w", classify(err, false))
	}
	return s.GetAssignee(ctx, id)
}

func (s *PostgresStore) UpdateAssignee(ctx context.Context, id int64, fields AssigneeFields) (Assignee, error) {
	result, err := s.db.ExecContext(ctx, updateByID(assigneesTable, "name", "description", "type", "image_id"),
		id, fields.Name, fields.Description, fields.Type, fields.ImageID,
	)
	if err := updated(assigneesTable, id, result, err); err != nil {
		return Assignee{}, err
	}
	return s.GetAssignee(ctx, id)
}

// DeleteAssignee leaves any stored image in place; the image id is only a
// weak reference.
func (s *PostgresStore) DeleteAssignee(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, s.db, assigneesTable, id)
}
