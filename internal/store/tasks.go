package store

import (
	"context"
	"database/sql"
	"fmt"
)

const tasksTable = "tasks"

const taskSelect = `
	SELECT t.id, t.name, t.description, t.type, t.start_date, t.end_date,
		a.id, a.name, a.description, a.type, a.image_id,
		s.id, s.name, s.description, s.type
	FROM tasks t
	JOIN assignees a ON a.id = t.assignee_id
	JOIN task_statuses s ON s.id = t.task_status_id
`

func scanTask(scanner interface{ Scan(...any) error }) (Task, error) {
	var item Task
	var imageID sql.NullString
	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Type,
		&item.StartDate,
		&item.EndDate,
		&item.Assignee.ID,
		&item.Assignee.Name,
		&item.Assignee.Description,
		&item.Assignee.Type,
		&imageID,
		&item.TaskStatus.ID,
		&item.TaskStatus.Name,
		&item.TaskStatus.Description,
		&item.TaskStatus.Type,
	)
	if err != nil {
		return Task{}, err
	}
	if imageID.Valid {
		item.Assignee.ImageID = &imageID.String
	}
	return newTask(item), nil
}

func (s *PostgresStore) expandTask(ctx context.Context, item *Task, expand Expand) error {
	if expand.Tags {
		tags, err := taskTags.members(ctx, s.db, item.ID)
		if err != nil {
			return fmt.Errorf("task %d tags: %w", item.ID, err)
		}
		item.Tags = asTags(tags)
	}
	if expand.Roadmaps {
		roadmaps, err := taskRoadmaps.members(ctx, s.db, item.ID)
		if err != nil {
			return fmt.Errorf("task %d roadmaps: %w", item.ID, err)
		}
		item.Roadmaps = asRoadmaps(roadmaps)
	}
	return nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, expand Expand) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, taskSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	items := make([]Task, 0)
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	rows.Close()

	err = forEach(ctx, items, func(ctx context.Context, item *Task) error {
		return s.expandTask(ctx, item, expand)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PostgresStore) GetTask(ctx context.Context, id int64, expand Expand) (Task, error) {
	item, err := scanTask(s.db.QueryRowContext(ctx, taskSelect+` WHERE t.id=$1`, id))
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, classify(err, false))
	}
	if err := s.expandTask(ctx, &item, expand); err != nil {
		return Task{}, err
	}
	return item, nil
}

var taskWriteColumns = []string{"name", "description", "type", "start_date", "end_date", "assignee_id", "task_status_id"}

func taskWriteArgs(fields TaskFields) []any {
	return []any{
		fields.Name,
		fields.Description,
		fields.Type,
		fields.StartDate,
		fields.EndDate,
		fields.AssigneeID,
		fields.TaskStatusID,
	}
}

func (s *PostgresStore) CreateTask(ctx context.Context, fields TaskFields) (Task, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, insertReturningID(tasksTable, taskWriteColumns...), taskWriteArgs(fields)...).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert task: %w", classify(err, false))
		}
		if err := taskTags.attach(ctx, tx, id, fields.TagIDs); err != nil {
			return err
		}
		return taskRoadmaps.attach(ctx, tx, id, fields.RoadmapIDs)
	})
	if err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, id, ExpandAll)
}

// UpdateTask replaces the scalar columns and reconciles the tag and roadmap
// sets in one transaction, then reads the result back.
func (s *PostgresStore) UpdateTask(ctx context.Context, id int64, fields TaskFields) (Task, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		args := append([]any{id}, taskWriteArgs(fields)...)
		result, err := tx.ExecContext(ctx, updateByID(tasksTable, taskWriteColumns...), args...)
		if err := updated(tasksTable, id, result, err); err != nil {
			return err
		}
		if _, err := taskTags.reconcile(ctx, tx, id, fields.TagIDs); err != nil {
			return err
		}
		_, err = taskRoadmaps.reconcile(ctx, tx, id, fields.RoadmapIDs)
		return err
	})
	if err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, id, ExpandAll)
}

// DeleteTask drops the task's own tag and roadmap rows before the task.
func (s *PostgresStore) DeleteTask(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := taskTags.detachAll(ctx, tx, id); err != nil {
			return err
		}
		if err := taskRoadmaps.detachAll(ctx, tx, id); err != nil {
			return err
		}
		return s.deleteEntity(ctx, tx, tasksTable, id)
	})
}
