package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

func TestRegistryStore_MergePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.json")
	ctx := context.Background()

	store, err := NewRegistryStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	report, err := store.Merge(ctx, []tournament.Entry{
		{TournamentID: "580", Name: "Australian Open", SglDrawSize: 128},
		{TournamentID: "520", Name: "Roland Garros"},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if report.Added != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	reopened, err := NewRegistryStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}

	record, found, err := reopened.Get(ctx, "580")
	if err != nil || !found {
		t.Fatalf("get after reopen: found=%t err=%v", found, err)
	}
	if record.Name != "Australian Open" || record.SglDrawSize != 128 {
		t.Fatalf("record lost fields: %+v", record)
	}

	records, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].TournamentID != "520" {
		t.Fatalf("list not sorted by id: %+v", records)
	}
}

func TestRegistryStore_MergeNeverDropsFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.json")
	ctx := context.Background()

	store, err := NewRegistryStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if _, err := store.Merge(ctx, []tournament.Entry{
		{TournamentID: "580", Name: "Australian Open", Location: "Melbourne, Australia", SglDrawSize: 128},
	}); err != nil {
		t.Fatalf("first merge: %v", err)
	}

	// Sparser re-fetch of the same tournament: absent fields must survive.
	if _, err := store.Merge(ctx, []tournament.Entry{
		{TournamentID: "580", Name: "Australian Open"},
	}); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	record, _, err := store.Get(ctx, "580")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Location != "Melbourne, Australia" || record.SglDrawSize != 128 {
		t.Fatalf("sparser merge dropped fields: %+v", record)
	}
}

func TestRegistryStore_ConcurrentMerges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.json")
	ctx := context.Background()

	store, err := NewRegistryStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ids := []string{"100", "200", "300", "400", "500"}

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Merge(ctx, []tournament.Entry{{TournamentID: id, Name: "Event " + id}}); err != nil {
				t.Errorf("merge %s: %v", id, err)
			}
		}()
	}
	wg.Wait()

	registry, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for _, id := range ids {
		if _, ok := registry[id]; !ok {
			t.Fatalf("concurrent merge lost tournament %s: %v", id, registry)
		}
	}
}

func TestRegistryStore_RejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if _, err := NewRegistryStore(path); err == nil {
		t.Fatal("corrupt registry file must fail open, not be silently replaced")
	}
}
