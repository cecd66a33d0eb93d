package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	tournamentmock "github.com/courtdata/atp-proxy/internal/mocks/domain/tournament"
)

func TestTournamentService_ListTournaments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := tournamentmock.NewStore(t)
	service := NewTournamentService(store)

	expected := []tournament.Record{
		{TournamentID: "339", Name: "Brisbane International"},
		{TournamentID: "580", Name: "Australian Open"},
	}
	store.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return(expected, nil).
		Once()

	got, err := service.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if len(got) != 2 || got[0].TournamentID != "339" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestTournamentService_GetTournament(t *testing.T) {
	t.Parallel()

	registry := map[string]tournament.Record{
		"580": {TournamentID: "580", Name: "Australian Open", SglDrawSize: 128},
	}

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		store := tournamentmock.NewStore(t)
		store.On("Snapshot", mock.Anything).Return(registry, nil).Once()

		record, err := NewTournamentService(store).GetTournament(context.Background(), "580")
		if err != nil {
			t.Fatalf("get tournament: %v", err)
		}
		if record.Name != "Australian Open" {
			t.Fatalf("unexpected record: %+v", record)
		}
	})

	t.Run("by name case insensitive", func(t *testing.T) {
		t.Parallel()

		store := tournamentmock.NewStore(t)
		store.On("Snapshot", mock.Anything).Return(registry, nil).Once()

		record, err := NewTournamentService(store).GetTournament(context.Background(), "australian open")
		if err != nil {
			t.Fatalf("get tournament by name: %v", err)
		}
		if record.TournamentID != "580" {
			t.Fatalf("unexpected record: %+v", record)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		store := tournamentmock.NewStore(t)
		store.On("Snapshot", mock.Anything).Return(registry, nil).Once()

		_, err := NewTournamentService(store).GetTournament(context.Background(), "Wimbledon")
		if !errors.Is(err, ErrUnknownTournament) {
			t.Fatalf("expected ErrUnknownTournament, got %v", err)
		}
	})

	t.Run("numeric id without record", func(t *testing.T) {
		t.Parallel()

		store := tournamentmock.NewStore(t)
		store.On("Snapshot", mock.Anything).Return(registry, nil).Once()

		_, err := NewTournamentService(store).GetTournament(context.Background(), "9999")
		if !errors.Is(err, ErrUnknownTournament) {
			t.Fatalf("expected ErrUnknownTournament for unregistered numeric id, got %v", err)
		}
	})

	t.Run("blank id", func(t *testing.T) {
		t.Parallel()

		store := tournamentmock.NewStore(t)

		_, err := NewTournamentService(store).GetTournament(context.Background(), "   ")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
