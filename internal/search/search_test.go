package search

import (
	"context"
	"encoding/json"
	"testing"

	meili "github.com/meilisearch/meilisearch-go"
)

func TestRecordKeyIsUniquePerKind(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range ResultTypes {
		key := RecordKey(typ, 7)
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
	if got := RecordKey(ResultTask, 3); got != "task-3" {
		t.Fatalf("RecordKey() = %q, want task-3", got)
	}
}

func TestNewRecord(t *testing.T) {
	record := NewRecord(ResultMilestone, 4, "Beta", "Public beta")
	if record.Key != "milestone-4" || record.Type != ResultMilestone || record.ID != 4 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestResultTypeValid(t *testing.T) {
	if !ResultTaskStatus.Valid() {
		t.Fatal("taskStatus should be valid")
	}
	if ResultType("document").Valid() {
		t.Fatal("document should not be valid")
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: defaultLimit, -5: defaultLimit, 10: 10, 1000: maxLimit}
	for in, want := range cases {
		if got := normalizeLimit(in); got != want {
			t.Fatalf("normalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike() = %q", got)
	}
}

func TestHitToResultPrefersHighlightedSnippet(t *testing.T) {
	hit := meili.Hit{
		"type":        json.RawMessage(`"task"`),
		"id":          json.RawMessage(`12`),
		"name":        json.RawMessage(`"Write docs"`),
		"description": json.RawMessage(`"Document the API"`),
		"_formatted":  json.RawMessage(`{"description":"Document the <mark>API</mark>"}`),
	}
	got := hitToResult(hit)
	want := Result{Type: ResultTask, ID: 12, Name: "Write docs", Snippet: "Document the <mark>API</mark>"}
	if got != want {
		t.Fatalf("hitToResult() = %+v, want %+v", got, want)
	}

	delete(hit, "_formatted")
	if got := hitToResult(hit); got.Snippet != "Document the API" {
		t.Fatalf("fallback snippet = %q", got.Snippet)
	}
}

func TestServiceWithoutBackendsReturnsEmptyResults(t *testing.T) {
	svc := NewService(nil, nil)
	resp := svc.Search(context.Background(), Query{Text: "roadmap"})
	if resp.Results == nil || len(resp.Results) != 0 || resp.Query != "roadmap" {
		t.Fatalf("unexpected response %+v", resp)
	}
	// Indexing without Meilisearch is a no-op.
	svc.Index(NewRecord(ResultTag, 1, "ui", "frontend"))
	svc.Delete(ResultTag, 1)
	svc.ReindexAllFromPG(context.Background())
}

func TestPgSearchBlankQuery(t *testing.T) {
	results, total, err := NewPg(nil).Search(context.Background(), Query{Text: "   "})
	if err != nil || total != 0 || results != nil {
		t.Fatalf("blank query = %v, %d, %v", results, total, err)
	}
}
