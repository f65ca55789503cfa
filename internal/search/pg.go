package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// sources maps each searchable kind to the table holding it.
var sources = []struct {
	typ   ResultType
	table string
}{
	{ResultTask, "tasks"},
	{ResultMilestone, "milestones"},
	{ResultRoadmap, "roadmaps"},
	{ResultTag, "tags"},
	{ResultAssignee, "assignees"},
	{ResultTaskStatus, "task_statuses"},
}

// Pg implements search with case-insensitive substring matching in
// PostgreSQL. It is the fallback when Meilisearch is absent or unhealthy.
type Pg struct {
	db *sql.DB
}

// NewPg creates a PostgreSQL searcher.
func NewPg(db *sql.DB) *Pg {
	return &Pg{db: db}
}

// Healthy always returns true. If Postgres is down, the whole app is down.
func (p *Pg) Healthy() bool {
	return true
}

// escapeLike quotes the LIKE metacharacters in text.
func escapeLike(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(text)
}

// Search runs one UNION ALL query across the entity tables. Name matches rank
// ahead of description-only matches.
func (p *Pg) Search(ctx context.Context, q Query) ([]Result, int, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, 0, nil
	}

	var subQueries []string
	for _, source := range sources {
		if q.FilterType != "" && q.FilterType != source.typ {
			continue
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT '%s'::text AS type, id, name,
				left(description, 160) AS snippet,
				CASE WHEN name ILIKE $1 THEN 0 ELSE 1 END AS rank
			FROM %s
			WHERE name ILIKE $1 OR description ILIKE $1`, source.typ, source.table))
	}
	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	union := strings.Join(subQueries, " UNION ALL ")
	pattern := "%" + escapeLike(text) + "%"

	var total int
	if err := p.db.QueryRowContext(ctx, fmt.Sprintf("SELECT count(*) FROM (%s) sub", union), pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pg search count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`SELECT type, id, name, snippet
		FROM (%s) sub
		ORDER BY rank, name, id
		LIMIT %d`, union, normalizeLimit(q.Limit)), pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("pg search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Name, &r.Snippet); err != nil {
			return nil, 0, fmt.Errorf("pg search scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// LoadAllRecords returns every searchable entity for full reindexing.
func (p *Pg) LoadAllRecords(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0)
	for _, source := range sources {
		rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name, description FROM %s ORDER BY id`, source.table))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", source.table, err)
		}
		for rows.Next() {
			var id int64
			var name, description string
			if err := rows.Scan(&id, &name, &description); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s: %w", source.table, err)
			}
			records = append(records, NewRecord(source.typ, id, name, description))
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", source.table, err)
		}
	}
	return records, nil
}
