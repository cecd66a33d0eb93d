package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/atp-proxy/internal/domain/match"
	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

type stubMatchStore struct {
	stubRegistryStore
	registry map[string]tournament.Record
}

func (s *stubMatchStore) Snapshot(context.Context) (map[string]tournament.Record, error) {
	return s.registry, nil
}

type stubMatchProvider struct {
	payloads  map[string]match.Payload
	decodeErr map[string]bool
	fetchErr  error
}

func (p *stubMatchProvider) FetchMatch(_ context.Context, _ int, _ string, matchID string) (match.Payload, bool, error) {
	if p.fetchErr != nil {
		return nil, false, p.fetchErr
	}
	if p.decodeErr[matchID] {
		return nil, false, ErrUpstreamShapeChanged
	}
	payload, ok := p.payloads[matchID]
	if !ok {
		return nil, false, nil
	}
	return payload, true, nil
}

func matchRegistry() map[string]tournament.Record {
	return map[string]tournament.Record{
		"580": {TournamentID: "580", Name: "Australian Open", SglDrawSize: 8, SeasonYear: 2025},
	}
}

func wrappedMatch(id string) match.Payload {
	return match.Payload{
		"Tournament": map[string]any{"EventName": "Australian Open"},
		"Match":      map[string]any{"MatchId": id, "RoundName": "Final"},
	}
}

func TestMatchService_LookupMatches(t *testing.T) {
	t.Parallel()

	provider := &stubMatchProvider{payloads: map[string]match.Payload{
		"ms001": wrappedMatch("ms001"),
		"ms003": wrappedMatch("ms003"),
		"qs002": wrappedMatch("qs002"),
		// filler document without a match identifier, must be dropped
		"ms005": {"Message": "no stats"},
	}}
	store := &stubMatchStore{registry: matchRegistry()}

	service := NewMatchService(store, provider, 4, nil)

	result, err := service.LookupMatches(context.Background(), "Australian Open", 2025, false)
	if err != nil {
		t.Fatalf("lookup matches: %v", err)
	}

	if result.Tournament != "Australian Open" || result.TournamentID != "580" || result.Year != 2025 {
		t.Fatalf("unexpected header: %+v", result)
	}
	want := []string{"ms001", "ms003", "qs002"}
	if len(result.MatchIDs) != len(want) {
		t.Fatalf("unexpected match ids: %v", result.MatchIDs)
	}
	for i, id := range want {
		if result.MatchIDs[i] != id {
			t.Fatalf("match ids not sorted: %v", result.MatchIDs)
		}
		if result.Matches[id] == nil {
			t.Fatalf("payload missing for %s", id)
		}
	}
	if _, ok := result.Matches["ms005"]; ok {
		t.Fatal("document without MatchId must be filtered out")
	}
}

func TestMatchService_LookupMatches_DefaultsToRegistrySeason(t *testing.T) {
	t.Parallel()

	provider := &stubMatchProvider{payloads: map[string]match.Payload{
		"ms001": wrappedMatch("ms001"),
	}}
	store := &stubMatchStore{registry: matchRegistry()}

	result, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "580", 0, false)
	if err != nil {
		t.Fatalf("lookup matches: %v", err)
	}
	if result.Year != 2025 {
		t.Fatalf("expected registry season 2025, got %d", result.Year)
	}
}

func TestMatchService_LookupMatches_Flatten(t *testing.T) {
	t.Parallel()

	provider := &stubMatchProvider{payloads: map[string]match.Payload{
		"ms001": wrappedMatch("ms001"),
	}}
	store := &stubMatchStore{registry: matchRegistry()}

	result, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "580", 2025, true)
	if err != nil {
		t.Fatalf("lookup matches: %v", err)
	}

	summary, ok := result.Matches["ms001"].(match.Summary)
	if !ok {
		t.Fatalf("expected flattened summary, got %T", result.Matches["ms001"])
	}
	if summary.MatchID != "ms001" || summary.Round != "Final" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMatchService_LookupMatches_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown tournament", func(t *testing.T) {
		t.Parallel()

		store := &stubMatchStore{registry: matchRegistry()}
		_, err := NewMatchService(store, &stubMatchProvider{}, 2, nil).LookupMatches(context.Background(), "Wimbledon", 2025, false)
		if !errors.Is(err, ErrUnknownTournament) {
			t.Fatalf("expected ErrUnknownTournament, got %v", err)
		}
	})

	t.Run("transport failure fails lookup", func(t *testing.T) {
		t.Parallel()

		store := &stubMatchStore{registry: matchRegistry()}
		provider := &stubMatchProvider{fetchErr: ErrUpstreamUnavailable}
		_, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "580", 2025, false)
		if !errors.Is(err, ErrUpstreamUnavailable) {
			t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
		}
	})

	t.Run("only undecodable documents means shape drift", func(t *testing.T) {
		t.Parallel()

		store := &stubMatchStore{registry: matchRegistry()}
		provider := &stubMatchProvider{decodeErr: map[string]bool{"ms001": true}}
		_, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "580", 2025, false)
		if !errors.Is(err, ErrUpstreamShapeChanged) {
			t.Fatalf("expected ErrUpstreamShapeChanged, got %v", err)
		}
	})

	t.Run("decode failure tolerated when matches exist", func(t *testing.T) {
		t.Parallel()

		store := &stubMatchStore{registry: matchRegistry()}
		provider := &stubMatchProvider{
			payloads:  map[string]match.Payload{"ms002": wrappedMatch("ms002")},
			decodeErr: map[string]bool{"ms001": true},
		}
		result, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "580", 2025, false)
		if err != nil {
			t.Fatalf("lookup should survive one bad document: %v", err)
		}
		if len(result.MatchIDs) != 1 || result.MatchIDs[0] != "ms002" {
			t.Fatalf("unexpected match ids: %v", result.MatchIDs)
		}
	})
}

func TestMatchService_LookupMatches_NumericPassThrough(t *testing.T) {
	t.Parallel()

	provider := &stubMatchProvider{payloads: map[string]match.Payload{
		"ms001": wrappedMatch("ms001"),
	}}
	store := &stubMatchStore{registry: matchRegistry()}

	result, err := NewMatchService(store, provider, 2, nil).LookupMatches(context.Background(), "7161", 2024, false)
	if err != nil {
		t.Fatalf("numeric pass-through lookup: %v", err)
	}
	if result.Tournament != "Unknown" || result.TournamentID != "7161" {
		t.Fatalf("unexpected pass-through header: %+v", result)
	}
}

func TestMatchService_GetMatch(t *testing.T) {
	t.Parallel()

	provider := &stubMatchProvider{payloads: map[string]match.Payload{
		"ms001": wrappedMatch("ms001"),
	}}
	store := &stubMatchStore{registry: matchRegistry()}
	service := NewMatchService(store, provider, 2, nil)

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		payload, err := service.GetMatch(context.Background(), "580", "ms001", 2025, false)
		if err != nil {
			t.Fatalf("get match: %v", err)
		}
		if payload.(match.Payload)["Match"] == nil {
			t.Fatalf("payload lost: %+v", payload)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := service.GetMatch(context.Background(), "580", "ms099", 2025, false)
		if !errors.Is(err, ErrMatchNotFound) {
			t.Fatalf("expected ErrMatchNotFound, got %v", err)
		}
	})

	t.Run("bad match id", func(t *testing.T) {
		t.Parallel()

		_, err := service.GetMatch(context.Background(), "580", "finals-1", 2025, false)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
