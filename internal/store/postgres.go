package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// expandConcurrency bounds the secondary queries a list expansion runs at
// once, so one list request cannot drain the pool.
const expandConcurrency = 4

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// forEach runs fn for every element of items with bounded concurrency and
// returns the first error.
func forEach[T any](ctx context.Context, items []T, fn func(context.Context, *T) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(expandConcurrency)
	for i := range items {
		item := &items[i]
		group.Go(func() error {
			return fn(groupCtx, item)
		})
	}
	return group.Wait()
}

func (s *PostgresStore) listEntities(ctx context.Context, table string) ([]Entity, error) {
	items, err := queryEntities(ctx, s.db, selectAll(table, entityColumns...))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return items, nil
}

func (s *PostgresStore) getEntity(ctx context.Context, table string, id int64) (Entity, error) {
	item, err := queryEntity(ctx, s.db, selectByID(table, entityColumns...), id)
	if err != nil {
		return Entity{}, fmt.Errorf("get %s %d: %w", table, id, err)
	}
	return item, nil
}

func (s *PostgresStore) insertEntity(ctx context.Context, table string, fields EntityFields) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, insertReturningID(table, "name", "description", "type"),
		fields.Name, fields.Description, fields.Type,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, classify(err, false))
	}
	return id, nil
}

func (s *PostgresStore) updateEntity(ctx context.Context, table string, id int64, fields EntityFields) error {
	result, err := s.db.ExecContext(ctx, updateByID(table, "name", "description", "type"),
		id, fields.Name, fields.Description, fields.Type,
	)
	return updated(table, id, result, err)
}

func (s *PostgresStore) deleteEntity(ctx context.Context, q querier, table string, id int64) error {
	result, err := q.ExecContext(ctx, deleteByID(table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, classify(err, true))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s rows: %w", table, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s %d: %w", table, id, ErrNotFound)
	}
	return nil
}

// updated turns the outcome of an UPDATE ... WHERE id=$1 into an error,
// reporting ErrNotFound when no row matched.
func updated(table string, id int64, result sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("update %s %d: %w", table, id, classify(err, false))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows: %w", table, err)
	}
	if affected == 0 {
		return fmt.Errorf("update %s %d: %w", table, id, ErrNotFound)
	}
	return nil
}
