package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/courtdata/atp-proxy/internal/domain/h2h"
)

var playerCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// HeadToHeadProvider retrieves the raw head-to-head document for a player
// pair, both parsed and as the original bytes.
type HeadToHeadProvider interface {
	FetchHeadToHead(ctx context.Context, player1ID, player2ID string) (h2h.Payload, []byte, error)
}

// H2HService serves head-to-head comparisons, either verbatim as upstream
// returned them or flattened into the normalized match summaries.
type H2HService struct {
	provider HeadToHeadProvider
}

func NewH2HService(provider HeadToHeadProvider) *H2HService {
	return &H2HService{provider: provider}
}

// GetRaw returns the upstream head-to-head document untouched.
func (s *H2HService) GetRaw(ctx context.Context, player1ID, player2ID string) (json.RawMessage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.H2HService.GetRaw")
	defer span.End()

	player1ID, player2ID, err := normalizePlayerPair(player1ID, player2ID)
	if err != nil {
		return nil, err
	}

	_, raw, err := s.provider.FetchHeadToHead(ctx, player1ID, player2ID)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(raw), nil
}

// GetFlattened returns the head-to-head document reduced to the two player
// sides plus one summary row per prior meeting.
func (s *H2HService) GetFlattened(ctx context.Context, player1ID, player2ID string) (h2h.Flattened, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.H2HService.GetFlattened")
	defer span.End()

	player1ID, player2ID, err := normalizePlayerPair(player1ID, player2ID)
	if err != nil {
		return h2h.Flattened{}, err
	}

	payload, _, err := s.provider.FetchHeadToHead(ctx, player1ID, player2ID)
	if err != nil {
		return h2h.Flattened{}, err
	}

	return h2h.Flatten(payload), nil
}

func normalizePlayerPair(player1ID, player2ID string) (string, string, error) {
	player1ID = strings.TrimSpace(player1ID)
	player2ID = strings.TrimSpace(player2ID)

	for _, code := range []string{player1ID, player2ID} {
		if !playerCodePattern.MatchString(code) {
			return "", "", fmt.Errorf("%w: player code %q must be alphanumeric", ErrInvalidInput, code)
		}
	}

	return player1ID, player2ID, nil
}
