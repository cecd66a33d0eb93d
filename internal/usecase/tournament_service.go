package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

// TournamentService serves registry reads for the HTTP surface. The registry
// itself only changes through the refresh flow.
type TournamentService struct {
	store tournament.Store
}

func NewTournamentService(store tournament.Store) *TournamentService {
	return &TournamentService{store: store}
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]tournament.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListTournaments")
	defer span.End()

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return records, nil
}

// GetTournament resolves an identifier or name against the registry and
// returns the stored record.
func (s *TournamentService) GetTournament(ctx context.Context, idOrName string) (tournament.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.GetTournament")
	defer span.End()

	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return tournament.Record{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	registry, err := s.store.Snapshot(ctx)
	if err != nil {
		return tournament.Record{}, fmt.Errorf("snapshot registry: %w", err)
	}

	id, ok := tournament.Resolve(registry, idOrName)
	if !ok {
		return tournament.Record{}, fmt.Errorf("%w: tournament=%s", ErrUnknownTournament, idOrName)
	}

	record, known := registry[id]
	if !known {
		// Numeric pass-through identifier with no registry record.
		return tournament.Record{}, fmt.Errorf("%w: tournament=%s", ErrUnknownTournament, idOrName)
	}

	return record, nil
}
