package store

import "time"

// Entity is the shape shared by every planner record.
type Entity struct {
	ID          int64
	Name        string
	Description string
	Type        int
}

type Tag struct {
	Entity
}

type TaskStatus struct {
	Entity
}

type Assignee struct {
	Entity
	ImageID *string
}

type Roadmap struct {
	Entity
	// Milestones and Tags are nil unless expanded.
	Milestones []Milestone
	Tags       []Tag
}

type Milestone struct {
	Entity
	Date       time.Time
	TaskStatus TaskStatus
	// Roadmaps and Tags are nil unless expanded.
	Roadmaps []Roadmap
	Tags     []Tag
}

type Task struct {
	Entity
	StartDate  time.Time
	EndDate    time.Time
	Duration   int
	Assignee   Assignee
	TaskStatus TaskStatus
	// Roadmaps and Tags are nil unless expanded.
	Roadmaps []Roadmap
	Tags     []Tag
}

// Expand selects which associations are embedded when reading.
type Expand struct {
	Tags       bool
	Roadmaps   bool
	Milestones bool
}

// ExpandAll embeds every association an entity has.
var ExpandAll = Expand{Tags: true, Roadmaps: true, Milestones: true}

// EntityFields are the writable columns of the simple entities.
type EntityFields struct {
	Name        string
	Description string
	Type        int
}

type AssigneeFields struct {
	EntityFields
	ImageID *string
}

type MilestoneFields struct {
	EntityFields
	Date         time.Time
	TaskStatusID int64
	TagIDs       []int64
	RoadmapIDs   []int64
}

type TaskFields struct {
	EntityFields
	StartDate    time.Time
	EndDate      time.Time
	AssigneeID   int64
	TaskStatusID int64
	TagIDs       []int64
	RoadmapIDs   []int64
}

// DurationDays returns the whole number of days between two calendar dates.
// Time of day is discarded and the result is never negative.
func DurationDays(start, end time.Time) int {
	diff := calendarDay(end).Sub(calendarDay(start))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTask(t Task) Task {
	t.Duration = DurationDays(t.StartDate, t.EndDate)
	return t
}
