package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to
// Postgres.
type Service struct {
	meili *Meili
	pg    *Pg
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, pg *Pg) *Service {
	return &Service{meili: meili, pg: pg}
}

func (s *Service) meiliReady() bool {
	return s.meili != nil && s.meili.Healthy()
}

// Search tries Meilisearch if healthy, otherwise falls back to Postgres.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meiliReady() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	if s.pg == nil {
		return Response{Results: []Result{}, Query: q.Text}
	}
	results, total, err := s.pg.Search(ctx, q)
	if err != nil {
		log.Printf("search: postgres error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// Index adds or replaces an entity in the index (fire-and-forget).
func (s *Service) Index(record Record) {
	if !s.meiliReady() {
		return
	}
	go func() {
		if err := s.meili.IndexRecords([]Record{record}); err != nil {
			log.Printf("search: index %s: %v", record.Key, err)
		}
	}()
}

// Delete removes an entity from the index (fire-and-forget).
func (s *Service) Delete(typ ResultType, id int64) {
	if !s.meiliReady() {
		return
	}
	key := RecordKey(typ, id)
	go func() {
		if err := s.meili.DeleteRecord(key); err != nil {
			log.Printf("search: delete %s: %v", key, err)
		}
	}()
}

// ReindexAllFromPG pushes every entity from PostgreSQL into Meilisearch.
func (s *Service) ReindexAllFromPG(ctx context.Context) {
	if !s.meiliReady() || s.pg == nil {
		return
	}
	records, err := s.pg.LoadAllRecords(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexRecords(records); err != nil {
		log.Printf("search: reindex: %v", err)
		return
	}
	log.Printf("search: reindexed %d records", len(records))
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
