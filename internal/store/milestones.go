package store

import (
	"context"
	"database/sql"
	"fmt"
)

const milestonesTable = "milestones"

const milestoneSelect = `
	SELECT m.id, m.name, m.description, m.type, m.date,
		s.id, s.name, s.description, s.type
	FROM milestones m
	JOIN task_statuses s ON s.id = m.task_status_id
`

func scanMilestone(scanner interface{ Scan(...any) error }) (Milestone, error) {
	var item Milestone
	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Type,
		&item.Date,
		&item.TaskStatus.ID,
		&item.TaskStatus.Name,
		&item.TaskStatus.Description,
		&item.TaskStatus.Type,
	)
	return item, err
}

func queryMilestones(ctx context.Context, q querier, statement string, args ...any) ([]Milestone, error) {
	rows, err := q.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	items := make([]Milestone, 0)
	for rows.Next() {
		item, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestones: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) expandMilestone(ctx context.Context, item *Milestone, expand Expand) error {
	if expand.Tags {
		tags, err := milestoneTags.members(ctx, s.db, item.ID)
		if err != nil {
			return fmt.Errorf("milestone %d tags: %w", item.ID, err)
		}
		item.Tags = asTags(tags)
	}
	if expand.Roadmaps {
		roadmaps, err := milestoneRoadmaps.members(ctx, s.db, item.ID)
		if err != nil {
			return fmt.Errorf("milestone %d roadmaps: %w", item.ID, err)
		}
		item.Roadmaps = asRoadmaps(roadmaps)
	}
	return nil
}

func (s *PostgresStore) ListMilestones(ctx context.Context, expand Expand) ([]Milestone, error) {
	items, err := queryMilestones(ctx, s.db, milestoneSelect+` ORDER BY m.id`)
	if err != nil {
		return nil, err
	}
	err = forEach(ctx, items, func(ctx context.Context, item *Milestone) error {
		return s.expandMilestone(ctx, item, expand)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PostgresStore) GetMilestone(ctx context.Context, id int64, expand Expand) (Milestone, error) {
	item, err := scanMilestone(s.db.QueryRowContext(ctx, milestoneSelect+` WHERE m.id=$1`, id))
	if err != nil {
		return Milestone{}, fmt.Errorf("get milestone %d: %w", id, classify(err, false))
	}
	if err := s.expandMilestone(ctx, &item, expand); err != nil {
		return Milestone{}, err
	}
	return item, nil
}

func (s *PostgresStore) CreateMilestone(ctx context.Context, fields MilestoneFields) (Milestone, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			insertReturningID(milestonesTable, "name", "description", "type", "date", "task_status_id"),
			fields.Name, fields.Description, fields.Type, fields.Date, fields.TaskStatusID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert milestone: %w", classify(err, false))
		}
		if err := milestoneTags.attach(ctx, tx, id, fields.TagIDs); err != nil {
			return err
		}
		return milestoneRoadmaps.attach(ctx, tx, id, fields.RoadmapIDs)
	})
	if err != nil {
		return Milestone{}, err
	}
	return s.GetMilestone(ctx, id, ExpandAll)
}

// UpdateMilestone replaces the scalar columns and reconciles both
// association sets in one transaction, then reads the result back.
func (s *PostgresStore) UpdateMilestone(ctx context.Context, id int64, fields MilestoneFields) (Milestone, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			updateByID(milestonesTable, "name", "description", "type", "date", "task_status_id"),
			id, fields.Name, fields.Description, fields.Type, fields.Date, fields.TaskStatusID,
		)
		if err := updated(milestonesTable, id, result, err); err != nil {
			return err
		}
		if _, err := milestoneTags.reconcile(ctx, tx, id, fields.TagIDs); err != nil {
			return err
		}
		_, err = milestoneRoadmaps.reconcile(ctx, tx, id, fields.RoadmapIDs)
		return err
	})
	if err != nil {
		return Milestone{}, err
	}
	return s.GetMilestone(ctx, id, ExpandAll)
}

// DeleteMilestone drops the milestone's own tag and roadmap rows before the
// milestone itself.
func (s *PostgresStore) DeleteMilestone(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := milestoneTags.detachAll(ctx, tx, id); err != nil {
			return err
		}
		if err := milestoneRoadmaps.detachAll(ctx, tx, id); err != nil {
			return err
		}
		return s.deleteEntity(ctx, tx, milestonesTable, id)
	})
}
