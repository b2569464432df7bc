package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Run(ctx context.Context, runID string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Record{}
	for _, rec := range s.records {
		if rec.RunID == runID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sortByIndex(out)
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func sortByIndex(recs []*Record) {
	slices.SortStableFunc(recs, func(a, b *Record) int { return a.Index - b.Index })
}

var _ Store = (*MemoryStore)(nil)
