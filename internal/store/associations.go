package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"waypoint/api/internal/assoc"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// association describes one join table.
type association struct {
	table        string
	ownerColumn  string
	memberColumn string
	memberTable  string
}

var (
	taskTags          = association{table: "task_tags", ownerColumn: "task_id", memberColumn: "tag_id", memberTable: "tags"}
	taskRoadmaps      = association{table: "task_roadmaps", ownerColumn: "task_id", memberColumn: "roadmap_id", memberTable: "roadmaps"}
	milestoneTags     = association{table: "milestone_tags", ownerColumn: "milestone_id", memberColumn: "tag_id", memberTable: "tags"}
	milestoneRoadmaps = association{table: "milestone_roadmaps", ownerColumn: "milestone_id", memberColumn: "roadmap_id", memberTable: "roadmaps"}
)

func (a association) currentPairs(ctx context.Context, q querier, ownerID int64) ([]assoc.Pair, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s=$1`, a.ownerColumn, a.memberColumn, a.table, a.ownerColumn),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", a.table, err)
	}
	defer rows.Close()

	pairs := make([]assoc.Pair, 0)
	for rows.Next() {
		var pair assoc.Pair
		if err := rows.Scan(&pair.OwnerID, &pair.MemberID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", a.table, err)
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", a.table, err)
	}
	return pairs, nil
}

// attach inserts one row per member id. Ids that are already attached or
// that name a missing member are skipped and logged; the rest still go in.
func (a association) attach(ctx context.Context, q querier, ownerID int64, memberIDs []int64) error {
	statement := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, id FROM %s WHERE id=$2
		ON CONFLICT DO NOTHING
	`, a.table, a.ownerColumn, a.memberColumn, a.memberTable)

	for _, memberID := range memberIDs {
		result, err := q.ExecContext(ctx, statement, ownerID, memberID)
		if err != nil {
			return fmt.Errorf("insert %s (%d, %d): %w", a.table, ownerID, memberID, classify(err, false))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert %s rows: %w", a.table, err)
		}
		if affected == 0 {
			log.Printf("store: %s: skipped %s=%d for %s=%d (already attached or missing)",
				a.table, a.memberColumn, memberID, a.ownerColumn, ownerID)
		}
	}
	return nil
}

func (a association) detach(ctx context.Context, q querier, pairs []assoc.Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s=$1 AND %s=$2`, a.table, a.ownerColumn, a.memberColumn)
	for _, pair := range pairs {
		if _, err := q.ExecContext(ctx, statement, pair.OwnerID, pair.MemberID); err != nil {
			return fmt.Errorf("delete %s (%d, %d): %w", a.table, pair.OwnerID, pair.MemberID, err)
		}
	}
	return nil
}

func (a association) detachAll(ctx context.Context, q querier, ownerID int64) error {
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s=$1`, a.table, a.ownerColumn)
	if _, err := q.ExecContext(ctx, statement, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", a.table, err)
	}
	return nil
}

// reconcile brings the owner's rows in line with desired and returns what it
// changed.
func (a association) reconcile(ctx context.Context, q querier, ownerID int64, desired []int64) (assoc.Delta, error) {
	current, err := a.currentPairs(ctx, q, ownerID)
	if err != nil {
		return assoc.Delta{}, err
	}
	delta := assoc.Reconcile(ownerID, current, desired)
	if err := a.detach(ctx, q, delta.Delete); err != nil {
		return assoc.Delta{}, err
	}
	if err := a.attach(ctx, q, ownerID, assoc.MemberIDs(delta.Insert)); err != nil {
		return assoc.Delta{}, err
	}
	return delta, nil
}

// members loads the member rows attached to ownerID.
func (a association) members(ctx context.Context, q querier, ownerID int64) ([]Entity, error) {
	statement := fmt.Sprintf(`
		SELECT %s
		FROM %s m
		JOIN %s j ON j.%s = m.id
		WHERE j.%s=$1
		ORDER BY m.id
	`, strings.Join(qualified("m", entityColumns...), ", "), a.memberTable, a.table, a.memberColumn, a.ownerColumn)
	return queryEntities(ctx, q, statement, ownerID)
}

func queryEntities(ctx context.Context, q querier, statement string, args ...any) ([]Entity, error) {
	rows, err := q.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Entity, 0)
	for rows.Next() {
		var item Entity
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Type); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func queryEntity(ctx context.Context, q querier, statement string, id int64) (Entity, error) {
	var item Entity
	err := q.QueryRowContext(ctx, statement, id).Scan(&item.ID, &item.Name, &item.Description, &item.Type)
	if err != nil {
		return Entity{}, classify(err, false)
	}
	return item, nil
}

func asTags(items []Entity) []Tag {
	tags := make([]Tag, len(items))
	for i, item := range items {
		tags[i] = Tag{Entity: item}
	}
	return tags
}

func asRoadmaps(items []Entity) []Roadmap {
	roadmaps := make([]Roadmap, len(items))
	for i, item := range items {
		roadmaps[i] = Roadmap{Entity: item}
	}
	return roadmaps
}

func asTaskStatuses(items []Entity) []TaskStatus {
	statuses := make([]TaskStatus, len(items))
	for i, item := range items {
		statuses[i] = TaskStatus{Entity: item}
	}
	return statuses
}
