package store

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"waypoint/api/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := strings.TrimSpace(os.Getenv("WAYPOINT_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("WAYPOINT_TEST_DATABASE_URL is not set")
	}
	conn, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func embeddedMigrations(t *testing.T) fs.FS {
	t.Helper()
	migrations, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		t.Fatalf("open embedded migrations: %v", err)
	}
	return migrations
}

func newIntegrationStore(t *testing.T) *PostgresStore {
	t.Helper()
	conn := openTestDB(t)
	ctx := context.Background()
	if _, err := conn.ExecContext(ctx, `DROP SCHEMA IF EXISTS public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	if err := ApplyMigrations(ctx, conn, embeddedMigrations(t)); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return NewPostgresStore(conn)
}

type fixture struct {
	assignee Assignee
	status   TaskStatus
	tags     []Tag
	roadmaps []Roadmap
}

func seed(t *testing.T, s *PostgresStore) fixture {
	t.Helper()
	ctx := context.Background()

	assignee, err := s.CreateAssignee(ctx, AssigneeFields{EntityFields: EntityFields{Name: "Robin"}})
	if err != nil {
		t.Fatalf("create assignee: %v", err)
	}
	status, err := s.CreateTaskStatus(ctx, EntityFields{Name: "Backlog"})
	if err != nil {
		t.Fatalf("create status: %v", err)
	}
	var f fixture
	f.assignee = assignee
	f.status = status
	for _, name := range []string{"backend", "frontend", "ops"} {
		tag, err := s.CreateTag(ctx, EntityFields{Name: name})
		if err != nil {
			t.Fatalf("create tag: %v", err)
		}
		f.tags = append(f.tags, tag)
	}
	for _, name := range []string{"Q3", "Q4"} {
		roadmap, err := s.CreateRoadmap(ctx, EntityFields{Name: name, Description: name + " plan"})
		if err != nil {
			t.Fatalf("create roadmap: %v", err)
		}
		f.roadmaps = append(f.roadmaps, roadmap)
	}
	return f
}

func tagIDs(tags []Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return ids
}

func TestTaskLifecyclePostgres(t *testing.T) {
	s := newIntegrationStore(t)
	f := seed(t, s)
	ctx := context.Background()

	fields := TaskFields{
		EntityFields: EntityFields{Name: "Ship API", Description: "First cut"},
		StartDate:    date(t, "2024-06-15"),
		EndDate:      date(t, "2024-06-30"),
		AssigneeID:   f.assignee.ID,
		TaskStatusID: f.status.ID,
		// duplicate id and a missing id are both tolerated
		TagIDs:     []int64{f.tags[0].ID, f.tags[0].ID, 9999},
		RoadmapIDs: []int64{f.roadmaps[0].ID},
	}
	task, err := s.CreateTask(ctx, fields)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Duration != 15 {
		t.Fatalf("expected duration 15, got %d", task.Duration)
	}
	if got := tagIDs(task.Tags); len(got) != 1 || got[0] != f.tags[0].ID {
		t.Fatalf("expected only tag %d attached, got %v", f.tags[0].ID, got)
	}
	if task.Assignee.Name != "Robin" || task.TaskStatus.Name != "Backlog" {
		t.Fatalf("embedded references not assembled: %+v", task)
	}

	fields.TagIDs = []int64{f.tags[1].ID, f.tags[2].ID}
	fields.RoadmapIDs = nil
	updatedTask, err := s.UpdateTask(ctx, task.ID, fields)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if got := tagIDs(updatedTask.Tags); len(got) != 2 || got[0] != f.tags[1].ID || got[1] != f.tags[2].ID {
		t.Fatalf("unexpected tags after update: %v", got)
	}
	if len(updatedTask.Roadmaps) != 0 {
		t.Fatalf("expected roadmaps detached, got %v", updatedTask.Roadmaps)
	}

	err = s.DeleteTag(ctx, f.tags[1].ID)
	table, ok := IsConflict(err)
	if !ok || table != "task_tags" {
		t.Fatalf("expected conflict on task_tags, got %v", err)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := s.DeleteTag(ctx, f.tags[1].ID); err != nil {
		t.Fatalf("delete tag after task removal: %v", err)
	}
}

func TestMilestoneRoadmapExpansionPostgres(t *testing.T) {
	s := newIntegrationStore(t)
	f := seed(t, s)
	ctx := context.Background()

	milestone, err := s.CreateMilestone(ctx, MilestoneFields{
		EntityFields: EntityFields{Name: "Beta", Description: "Public beta"},
		Date:         date(t, "2024-09-01"),
		TaskStatusID: f.status.ID,
		TagIDs:       []int64{f.tags[0].ID, f.tags[1].ID},
		RoadmapIDs:   []int64{f.roadmaps[1].ID},
	})
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}

	roadmap, err := s.GetRoadmap(ctx, f.roadmaps[1].ID, ExpandAll)
	if err != nil {
		t.Fatalf("get roadmap: %v", err)
	}
	if len(roadmap.Milestones) != 1 || roadmap.Milestones[0].ID != milestone.ID {
		t.Fatalf("expected milestone on roadmap, got %+v", roadmap.Milestones)
	}
	if len(roadmap.Tags) != 2 {
		t.Fatalf("expected milestone tags on roadmap, got %+v", roadmap.Tags)
	}

	roadmaps, err := s.ListRoadmaps(ctx, Expand{})
	if err != nil {
		t.Fatalf("list roadmaps: %v", err)
	}
	for _, item := range roadmaps {
		if item.Milestones != nil || item.Tags != nil {
			t.Fatalf("expected unexpanded roadmap, got %+v", item)
		}
	}

	if _, err := s.UpdateMilestone(ctx, 424242, MilestoneFields{
		EntityFields: EntityFields{Name: "Ghost", Description: "none"},
		Date:         date(t, "2024-09-01"),
		TaskStatusID: f.status.ID,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	err = s.DeleteRoadmap(ctx, f.roadmaps[1].ID)
	if table, ok := IsConflict(err); !ok || table != "milestone_roadmaps" {
		t.Fatalf("expected conflict on milestone_roadmaps, got %v", err)
	}
}
