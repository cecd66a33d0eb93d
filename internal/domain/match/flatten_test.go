package match

import "testing"

func wrappedPayload() Payload {
	return Payload{
		"Tournament": map[string]any{
			"EventId":          float64(451),
			"EventYear":        float64(2025),
			"EventDisplayName": "Qatar ExxonMobil Open",
			"TournamentName":   "Doha",
			"TournamentCity":   "Doha",
			"Court":            "Hard",
		},
		"Match": map[string]any{
			"MatchId":         "ms001",
			"Status":          "F",
			"IsDoubles":       false,
			"WinningPlayerId": "DH58",
			"MatchTimeTotal":  "02:12",
			"Round":           map[string]any{"ShortName": "F"},
			"PlayerTeam": map[string]any{
				"Player": map[string]any{
					"PlayerId":        "DH58",
					"PlayerFirstName": "Andrey",
					"PlayerLastName":  "Rublev",
					"PlayerCountry":   "RUS",
				},
			},
			"OpponentTeam": map[string]any{
				"Player": map[string]any{
					"PlayerId":        "J0AU",
					"PlayerFirstName": "Jack",
					"PlayerLastName":  "Draper",
					"PlayerCountry":   "GBR",
				},
			},
			"PlayerTeam1": map[string]any{
				"Sets": []any{
					map[string]any{"SetNumber": float64(1), "SetScore": float64(7), "TieBreakScore": float64(7)},
					map[string]any{"SetNumber": float64(2), "SetScore": float64(6), "TieBreakScore": nil},
				},
			},
			"PlayerTeam2": map[string]any{
				"Sets": []any{
					map[string]any{"SetNumber": float64(1), "SetScore": float64(6), "TieBreakScore": float64(5)},
					map[string]any{"SetNumber": float64(2), "SetScore": float64(4), "TieBreakScore": nil},
				},
			},
		},
	}
}

func TestFlatten_WrappedPayload(t *testing.T) {
	t.Parallel()

	got := Flatten(wrappedPayload())

	if got.MatchID != "ms001" {
		t.Fatalf("match_id=%q", got.MatchID)
	}
	if got.EventID != "451" || got.EventYear != 2025 {
		t.Fatalf("event=%q year=%d", got.EventID, got.EventYear)
	}
	if got.Surface != "Hard" || got.Round != "F" || got.WinnerID != "DH58" {
		t.Fatalf("surface=%q round=%q winner=%q", got.Surface, got.Round, got.WinnerID)
	}
	if len(got.Players) != 2 {
		t.Fatalf("expected both players, got=%d", len(got.Players))
	}
	if got.Players[0].PlayerID != "DH58" || got.Players[1].LastName != "Draper" {
		t.Fatalf("players mapped wrong: %+v", got.Players)
	}

	if len(got.Score) != 2 {
		t.Fatalf("expected 2 sets, got=%d", len(got.Score))
	}
	first := got.Score[0]
	if first.Set != 1 || *first.P1 != 7 || *first.P2 != 6 {
		t.Fatalf("set 1 wrong: %+v", first)
	}
	if first.Tiebreak == nil || *first.Tiebreak.P1 != 7 || *first.Tiebreak.P2 != 5 {
		t.Fatalf("set 1 tiebreak wrong: %+v", first.Tiebreak)
	}
	if got.Score[1].Tiebreak != nil {
		t.Fatalf("set 2 should have no tiebreak: %+v", got.Score[1].Tiebreak)
	}
}

func TestFlatten_LegacyPayload(t *testing.T) {
	t.Parallel()

	got := Flatten(Payload{
		"MatchId":   "qs003",
		"Surface":   "Clay",
		"Status":    "F",
		"Winner":    "S0AG",
		"RoundName": "Q1",
	})

	if got.MatchID != "qs003" || got.Surface != "Clay" || got.Round != "Q1" || got.WinnerID != "S0AG" {
		t.Fatalf("legacy payload mapped wrong: %+v", got)
	}
	if got.Players != nil || got.Score != nil {
		t.Fatalf("legacy payload without teams should have nil players/score")
	}
}

func TestHasMatchID(t *testing.T) {
	t.Parallel()

	if !HasMatchID(wrappedPayload()) {
		t.Fatal("wrapped payload should carry a match id")
	}
	if !HasMatchID(Payload{"MatchId": "ms002"}) {
		t.Fatal("legacy payload should carry a match id")
	}
	if HasMatchID(Payload{"Match": map[string]any{}}) {
		t.Fatal("empty wrapped match should not count")
	}
	if HasMatchID(Payload{"Message": "No data"}) {
		t.Fatal("junk payload should not count")
	}
	if HasMatchID(nil) {
		t.Fatal("nil payload should not count")
	}
}
