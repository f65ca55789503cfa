package store

import "context"

const tagsTable = "tags"

func (s *PostgresStore) ListTags(ctx context.Context) ([]Tag, error) {
	items, err := s.listEntities(ctx, tagsTable)
	if err != nil {
		return nil, err
	}
	return asTags(items), nil
}

func (s *PostgresStore) GetTag(ctx context.Context, id int64) (Tag, error) {
	item, err := s.getEntity(ctx, tagsTable, id)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Entity: item}, nil
}

func (s *PostgresStore) CreateTag(ctx context.Context, fields EntityFields) (Tag, error) {
	id, err := s.insertEntity(ctx, tagsTable, fields)
	if err != nil {
		return Tag{}, err
	}
	return s.GetTag(ctx, id)
}

func (s *PostgresStore) UpdateTag(ctx context.Context, id int64, fields EntityFields) (Tag, error) {
	if err := s.updateEntity(ctx, tagsTable, id, fields); err != nil {
		return Tag{}, err
	}
	return s.GetTag(ctx, id)
}

// DeleteTag fails with a ConflictError while any task or milestone still
// carries the tag.
func (s *PostgresStore) DeleteTag(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, s.db, tagsTable, id)
}
