package search

import "fmt"

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultTask       ResultType = "task"
	ResultMilestone  ResultType = "milestone"
	ResultRoadmap    ResultType = "roadmap"
	ResultTag        ResultType = "tag"
	ResultAssignee   ResultType = "assignee"
	ResultTaskStatus ResultType = "taskStatus"
)

// ResultTypes lists every searchable kind.
var ResultTypes = []ResultType{ResultTask, ResultMilestone, ResultRoadmap, ResultTag, ResultAssignee, ResultTaskStatus}

// Valid reports whether t is one of the searchable kinds.
func (t ResultType) Valid() bool {
	for _, known := range ResultTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Result is a single search hit returned to the caller.
type Result struct {
	Type    ResultType `json:"type"`
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Snippet string     `json:"snippet"`
}

// Query describes a search request.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Limit      int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Record is what gets indexed for any entity.
type Record struct {
	Key         string     `json:"key"`
	Type        ResultType `json:"type"`
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// NewRecord builds a record whose key is unique across entity kinds.
func NewRecord(typ ResultType, id int64, name, description string) Record {
	return Record{
		Key:         RecordKey(typ, id),
		Type:        typ,
		ID:          id,
		Name:        name,
		Description: description,
	}
}

// RecordKey is the index primary key for an entity. Meilisearch keys may only
// contain alphanumerics, '-' and '_'.
func RecordKey(typ ResultType, id int64) string {
	return fmt.Sprintf("%s-%d", typ, id)
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
