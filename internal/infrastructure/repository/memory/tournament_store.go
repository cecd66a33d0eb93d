package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

type TournamentStore struct {
	mu    sync.RWMutex
	items map[string]tournament.Record
}

func NewTournamentStore(records []tournament.Record) *TournamentStore {
	items := make(map[string]tournament.Record, len(records))
	for _, record := range records {
		items[record.TournamentID] = record
	}

	return &TournamentStore{items: items}
}

func (s *TournamentStore) List(_ context.Context) ([]tournament.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tournament.Record, 0, len(s.items))
	for _, record := range s.items {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentID < out[j].TournamentID })

	return out, nil
}

func (s *TournamentStore) Get(_ context.Context, id string) (tournament.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.items[id]
	if !ok {
		return tournament.Record{}, false, nil
	}

	return record, true, nil
}

func (s *TournamentStore) Snapshot(_ context.Context) (map[string]tournament.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]tournament.Record, len(s.items))
	for id, record := range s.items {
		out[id] = record
	}

	return out, nil
}

func (s *TournamentStore) Merge(_ context.Context, entries []tournament.Entry) (tournament.MergeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, report := tournament.Merge(s.items, entries)
	s.items = merged

	return report, nil
}

func (s *TournamentStore) Close() error {
	return nil
}
