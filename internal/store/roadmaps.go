package store

import (
	"context"
	"fmt"
	"strings"
)

const roadmapsTable = "roadmaps"

var roadmapTagsQuery = fmt.Sprintf(`
	SELECT DISTINCT %s
	FROM tags tg
	JOIN milestone_tags mt ON mt.tag_id = tg.id
	JOIN milestone_roadmaps mr ON mr.milestone_id = mt.milestone_id
	WHERE mr.roadmap_id=$1
	ORDER BY tg.id
`, strings.Join(qualified("tg", entityColumns...), ", "))

func (s *PostgresStore) expandRoadmap(ctx context.Context, item *Roadmap, expand Expand) error {
	if expand.Milestones {
		milestones, err := queryMilestones(ctx, s.db, milestoneSelect+`
			JOIN milestone_roadmaps mr ON mr.milestone_id = m.id
			WHERE mr.roadmap_id=$1
			ORDER BY m.date, m.id
		`, item.ID)
		if err != nil {
			return fmt.Errorf("roadmap %d milestones: %w", item.ID, err)
		}
		item.Milestones = milestones
	}
	if expand.Tags {
		tags, err := queryEntities(ctx, s.db, roadmapTagsQuery, item.ID)
		if err != nil {
			return fmt.Errorf("roadmap %d tags: %w", item.ID, err)
		}
		item.Tags = asTags(tags)
	}
	return nil
}

func (s *PostgresStore) ListRoadmaps(ctx context.Context, expand Expand) ([]Roadmap, error) {
	items, err := s.listEntities(ctx, roadmapsTable)
	if err != nil {
		return nil, err
	}
	roadmaps := asRoadmaps(items)
	err = forEach(ctx, roadmaps, func(ctx context.Context, item *Roadmap) error {
		return s.expandRoadmap(ctx, item, expand)
	})
	if err != nil {
		return nil, err
	}
	return roadmaps, nil
}

func (s *PostgresStore) GetRoadmap(ctx context.Context, id int64, expand Expand) (Roadmap, error) {
	item, err := s.getEntity(ctx, roadmapsTable, id)
	if err != nil {
		return Roadmap{}, err
	}
	roadmap := Roadmap{Entity: item}
	if err := s.expandRoadmap(ctx, &roadmap, expand); err != nil {
		return Roadmap{}, err
	}
	return roadmap, nil
}

func (s *PostgresStore) CreateRoadmap(ctx context.Context, fields EntityFields) (Roadmap, error) {
	id, err := s.insertEntity(ctx, roadmapsTable, fields)
	if err != nil {
		return Roadmap{}, err
	}
	return s.GetRoadmap(ctx, id, ExpandAll)
}

func (s *PostgresStore) UpdateRoadmap(ctx context.Context, id int64, fields EntityFields) (Roadmap, error) {
	if err := s.updateEntity(ctx, roadmapsTable, id, fields); err != nil {
		return Roadmap{}, err
	}
	return s.GetRoadmap(ctx, id, ExpandAll)
}

// DeleteRoadmap fails with a ConflictError while any task or milestone is
// still on the roadmap.
func (s *PostgresStore) DeleteRoadmap(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, s.db, roadmapsTable, id)
}
