package store

import "context"

const taskStatusesTable = "task_statuses"

func (s *PostgresStore) ListTaskStatuses(ctx context.Context) ([]TaskStatus, error) {
	items, err := s.listEntities(ctx, taskStatusesTable)
	if err != nil {
		return nil, err
	}
	return asTaskStatuses(items), nil
}

func (s *PostgresStore) GetTaskStatus(ctx context.Context, id int64) (TaskStatus, error) {
	item, err := s.getEntity(ctx, taskStatusesTable, id)
	if err != nil {
		return TaskStatus{}, err
	}
	return TaskStatus{Entity: item}, nil
}

func (s *PostgresStore) CreateTaskStatus(ctx context.Context, fields EntityFields) (TaskStatus, error) {
	id, err := s.insertEntity(ctx, taskStatusesTable, fields)
	if err != nil {
		return TaskStatus{}, err
	}
	return s.GetTaskStatus(ctx, id)
}

func (s *PostgresStore) UpdateTaskStatus(ctx context.Context, id int64, fields EntityFields) (TaskStatus, error) {
	if err := s.updateEntity(ctx, taskStatusesTable, id, fields); err != nil {
		return TaskStatus{}, err
	}
	return s.GetTaskStatus(ctx, id)
}

func (s *PostgresStore) DeleteTaskStatus(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, s.db, taskStatusesTable, id)
}
