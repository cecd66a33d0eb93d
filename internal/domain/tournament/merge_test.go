package tournament

import (
	"reflect"
	"testing"
)

func TestMerge_InsertsAndUpdates(t *testing.T) {
	t.Parallel()

	existing := map[string]Record{
		"AUSOPEN25": {TournamentID: "AUSOPEN25", Name: "Australian Open", SeasonYear: 2025},
	}
	entries := []Entry{
		{TournamentID: "AUSOPEN25", Location: "Melbourne"},
		{TournamentID: "FRENCHOPEN25", Name: "French Open", SeasonYear: 2025},
	}

	merged, report := Merge(existing, entries)
	if len(merged) != 2 {
		t.Fatalf("expected 2 registry entries, got=%d", len(merged))
	}

	aus := merged["AUSOPEN25"]
	if aus.Name != "Australian Open" || aus.SeasonYear != 2025 {
		t.Fatalf("existing fields lost on update: %+v", aus)
	}
	if aus.Location != "Melbourne" {
		t.Fatalf("expected location added, got=%q", aus.Location)
	}

	fr := merged["FRENCHOPEN25"]
	if fr.Name != "French Open" || fr.SeasonYear != 2025 {
		t.Fatalf("inserted record incomplete: %+v", fr)
	}

	if report.Added != 1 || report.Updated != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{TournamentID: "580", Name: "Australian Open", SeasonYear: 2025, SglDrawSize: 128},
		{TournamentID: "520", Name: "Roland Garros", SeasonYear: 2025},
	}

	once, _ := Merge(nil, entries)
	twice, report := Merge(once, entries)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second merge drifted:\nonce=%+v\ntwice=%+v", once, twice)
	}
	if report.Added != 0 || report.Updated != 0 || report.Unchanged != 2 {
		t.Fatalf("unexpected report on replay: %+v", report)
	}
}

func TestMerge_NeverShrinks(t *testing.T) {
	t.Parallel()

	existing := map[string]Record{
		"339": {TournamentID: "339", Name: "Brisbane International"},
		"580": {TournamentID: "580", Name: "Australian Open"},
	}

	merged, _ := Merge(existing, []Entry{{TournamentID: "520", Name: "Roland Garros"}})
	for key := range existing {
		if _, ok := merged[key]; !ok {
			t.Fatalf("key %q lost during merge", key)
		}
	}
	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got=%d", len(merged))
	}
}

func TestMerge_AbsentFieldsDoNotOverwrite(t *testing.T) {
	t.Parallel()

	existing := map[string]Record{
		"X": {TournamentID: "X", Name: "A", Location: "L", SglDrawSize: 32},
	}
	entries := []Entry{
		{TournamentID: "X", Name: "B", Location: "   ", SglDrawSize: 0},
	}

	merged, _ := Merge(existing, entries)
	got := merged["X"]
	if got.Name != "B" {
		t.Fatalf("expected name overwritten, got=%q", got.Name)
	}
	if got.Location != "L" {
		t.Fatalf("blank location overwrote stored value: %q", got.Location)
	}
	if got.SglDrawSize != 32 {
		t.Fatalf("zero draw size overwrote stored value: %d", got.SglDrawSize)
	}
}

func TestMerge_SkipsEntriesWithoutID(t *testing.T) {
	t.Parallel()

	merged, report := Merge(nil, []Entry{
		{Name: "No ID"},
		{TournamentID: "  ", Name: "Blank ID"},
		{TournamentID: "451", Name: "Wimbledon"},
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got=%d", len(merged))
	}
	if report.Skipped != 2 || report.Added != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	existing := map[string]Record{
		"580": {TournamentID: "580", Name: "Australian Open"},
	}

	_, _ = Merge(existing, []Entry{{TournamentID: "580", Name: "AO"}})
	if existing["580"].Name != "Australian Open" {
		t.Fatalf("input registry mutated: %+v", existing["580"])
	}
}
