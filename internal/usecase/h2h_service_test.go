package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/atp-proxy/internal/domain/h2h"
)

type stubH2HProvider struct {
	payload h2h.Payload
	raw     []byte
	err     error

	gotPlayer1 string
	gotPlayer2 string
}

func (p *stubH2HProvider) FetchHeadToHead(_ context.Context, player1ID, player2ID string) (h2h.Payload, []byte, error) {
	p.gotPlayer1 = player1ID
	p.gotPlayer2 = player2ID
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.payload, p.raw, nil
}

func TestH2HService_GetRaw(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"playerLeft":{"PlayerId":"DH58"},"Tournaments":[]}`)
	provider := &stubH2HProvider{payload: h2h.Payload{"playerLeft": map[string]any{}}, raw: raw}

	got, err := NewH2HService(provider).GetRaw(context.Background(), " DH58 ", "J0AU")
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("raw body must pass through untouched: %s", got)
	}
	if provider.gotPlayer1 != "DH58" || provider.gotPlayer2 != "J0AU" {
		t.Fatalf("player codes not trimmed: %q %q", provider.gotPlayer1, provider.gotPlayer2)
	}
}

func TestH2HService_GetFlattened(t *testing.T) {
	t.Parallel()

	provider := &stubH2HProvider{payload: h2h.Payload{
		"playerLeft":  map[string]any{"PlayerId": "DH58"},
		"playerRight": map[string]any{"PlayerId": "J0AU"},
		"Tournaments": []any{
			map[string]any{
				"EventDisplayName": "Indian Wells",
				"EventYear":        float64(2024),
				"Matches": []any{
					map[string]any{"MatchId": "ms027", "ResultString": "64 76(5)"},
				},
			},
		},
	}}

	got, err := NewH2HService(provider).GetFlattened(context.Background(), "DH58", "J0AU")
	if err != nil {
		t.Fatalf("get flattened: %v", err)
	}
	if got.PlayerLeft == nil || got.PlayerRight == nil {
		t.Fatal("side metadata must survive flattening")
	}
	if len(got.Matches) != 1 {
		t.Fatalf("expected one match, got=%d", len(got.Matches))
	}
	row := got.Matches[0]
	if row.Tournament != "Indian Wells" || row.MatchID != "ms027" || len(row.Sets) != 2 {
		t.Fatalf("unexpected summary: %+v", row)
	}
}

func TestH2HService_ValidatesPlayerCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		player1 string
		player2 string
	}{
		{"empty first", "", "J0AU"},
		{"path traversal", "../etc", "J0AU"},
		{"whitespace only", "   ", "J0AU"},
		{"symbols in second", "DH58", "a;b"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			provider := &stubH2HProvider{}
			_, err := NewH2HService(provider).GetRaw(context.Background(), tc.player1, tc.player2)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if provider.gotPlayer1 != "" || provider.gotPlayer2 != "" {
				t.Fatal("invalid codes must never reach upstream")
			}
		})
	}
}

func TestH2HService_PropagatesUpstreamErrors(t *testing.T) {
	t.Parallel()

	provider := &stubH2HProvider{err: ErrPlayerNotFound}
	_, err := NewH2HService(provider).GetFlattened(context.Background(), "XX00", "YY00")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}
