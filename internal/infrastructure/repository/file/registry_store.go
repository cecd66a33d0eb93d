package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/gofrs/flock"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

const DefaultRegistryPath = "data/tournament_registry.json"

// RegistryStore persists the tournament registry as one JSON object keyed by
// tournament ID. Reads are served from an in-memory copy; merges take a
// cross-process file lock, re-read the file, merge, and replace it atomically
// so concurrent refreshers never lose fields.
type RegistryStore struct {
	path string
	lock *flock.Flock

	mu    sync.RWMutex
	items map[string]tournament.Record
}

func NewRegistryStore(path string) (*RegistryStore, error) {
	if path == "" {
		path = DefaultRegistryPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}

	store := &RegistryStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	items, err := readRegistryFile(path)
	if err != nil {
		return nil, err
	}
	store.items = items

	return store, nil
}

func (s *RegistryStore) List(_ context.Context) ([]tournament.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tournament.Record, 0, len(s.items))
	for _, record := range s.items {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentID < out[j].TournamentID })

	return out, nil
}

func (s *RegistryStore) Get(_ context.Context, id string) (tournament.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.items[id]
	if !ok {
		return tournament.Record{}, false, nil
	}

	return record, true, nil
}

func (s *RegistryStore) Snapshot(_ context.Context) (map[string]tournament.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]tournament.Record, len(s.items))
	for id, record := range s.items {
		out[id] = record
	}

	return out, nil
}

func (s *RegistryStore) Merge(_ context.Context, entries []tournament.Entry) (tournament.MergeReport, error) {
	if err := s.lock.Lock(); err != nil {
		return tournament.MergeReport{}, fmt.Errorf("lock registry file: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	// Another process may have merged since this store last read the file.
	current, err := readRegistryFile(s.path)
	if err != nil {
		return tournament.MergeReport{}, err
	}

	merged, report := tournament.Merge(current, entries)

	if err := writeRegistryFile(s.path, merged); err != nil {
		return tournament.MergeReport{}, err
	}

	s.mu.Lock()
	s.items = merged
	s.mu.Unlock()

	return report, nil
}

func (s *RegistryStore) Close() error {
	return nil
}

func readRegistryFile(path string) (map[string]tournament.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]tournament.Record{}, nil
		}
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	if len(data) == 0 {
		return map[string]tournament.Record{}, nil
	}

	var items map[string]tournament.Record
	if err := sonic.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode registry file %s: %w", path, err)
	}
	if items == nil {
		items = map[string]tournament.Record{}
	}

	return items, nil
}

// writeRegistryFile replaces the registry via temp file plus rename, so a
// crash mid-write never leaves a truncated registry behind.
func writeRegistryFile(path string, items map[string]tournament.Record) error {
	data, err := sonic.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".registry-*.json")
	if err != nil {
		return fmt.Errorf("create registry temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write registry temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close registry temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod registry temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace registry file: %w", err)
	}

	return nil
}
