package match

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Payload is one raw Hawkeye match document. Upstream serves two variants:
// a wrapped {"Tournament": {...}, "Match": {...}} document and a legacy flat
// one with MatchId at the top level. Flattening handles both.
type Payload = map[string]any

// Summary is the flattened projection of a match payload.
type Summary struct {
	MatchID        string     `json:"match_id"`
	EventID        string     `json:"event_id,omitempty"`
	EventYear      int        `json:"event_year,omitempty"`
	EventName      string     `json:"event_name,omitempty"`
	TournamentName string     `json:"tournament_name,omitempty"`
	City           string     `json:"city,omitempty"`
	Surface        string     `json:"surface,omitempty"`
	Round          string     `json:"round,omitempty"`
	Status         string     `json:"status,omitempty"`
	IsDoubles      bool       `json:"is_doubles"`
	WinnerID       string     `json:"winner_id,omitempty"`
	Players        []Player   `json:"players"`
	Score          []SetScore `json:"score"`
	Duration       string     `json:"duration,omitempty"`
}

type Player struct {
	PlayerID  string `json:"player_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Country   string `json:"country,omitempty"`
}

type SetScore struct {
	Set      int       `json:"set"`
	P1       *int      `json:"p1"`
	P2       *int      `json:"p2"`
	Tiebreak *Tiebreak `json:"tiebreak"`
}

type Tiebreak struct {
	P1 *int `json:"p1"`
	P2 *int `json:"p2"`
}

// HasMatchID reports whether a payload carries a match identifier in either
// upstream variant. Probed IDs that do not exist return placeholder documents
// without one.
func HasMatchID(payload Payload) bool {
	if payload == nil {
		return false
	}
	if inner := getMap(payload, "Match"); inner != nil && getString(inner, "MatchId") != "" {
		return true
	}
	return getString(payload, "MatchId") != ""
}

// Flatten projects a raw match payload into a Summary. Field lookups follow
// the known upstream variants with wrapped fields preferred over legacy ones.
func Flatten(payload Payload) Summary {
	if payload == nil {
		return Summary{}
	}

	tournament := getMap(payload, "Tournament")
	matchDoc := getMap(payload, "Match")
	if matchDoc == nil {
		matchDoc = payload
	}

	out := Summary{
		MatchID:        firstNonEmpty(getString(matchDoc, "MatchId"), getString(payload, "MatchId")),
		EventID:        getString(tournament, "EventId"),
		EventYear:      getInt(tournament, "EventYear"),
		EventName:      getString(tournament, "EventDisplayName"),
		TournamentName: getString(tournament, "TournamentName"),
		City:           getString(tournament, "TournamentCity"),
		Surface:        firstNonEmpty(getString(tournament, "Court"), getString(matchDoc, "Surface"), getString(payload, "Surface")),
		Round:          resolveRound(matchDoc),
		Status:         firstNonEmpty(getString(matchDoc, "Status"), getString(matchDoc, "MatchStatus"), getString(payload, "Status")),
		IsDoubles:      getBool(matchDoc, "IsDoubles"),
		WinnerID:       firstNonEmpty(getString(matchDoc, "WinningPlayerId"), getString(matchDoc, "Winner"), getString(payload, "Winner")),
		Duration:       firstNonEmpty(getString(matchDoc, "MatchTimeTotal"), getString(matchDoc, "MatchTime")),
	}

	out.Players = flattenPlayers(matchDoc)
	out.Score = flattenScore(matchDoc)
	return out
}

func resolveRound(matchDoc Payload) string {
	if round := getMap(matchDoc, "Round"); round != nil {
		if short := getString(round, "ShortName"); short != "" {
			return short
		}
	}
	return firstNonEmpty(getString(matchDoc, "RoundName"), getString(matchDoc, "Round"))
}

func flattenPlayers(matchDoc Payload) []Player {
	var out []Player
	for _, teamKey := range []string{"PlayerTeam", "OpponentTeam"} {
		team := getMap(matchDoc, teamKey)
		player := getMap(team, "Player")
		id := getString(player, "PlayerId")
		if id == "" {
			continue
		}
		out = append(out, Player{
			PlayerID:  id,
			FirstName: getString(player, "PlayerFirstName"),
			LastName:  getString(player, "PlayerLastName"),
			Country:   getString(player, "PlayerCountry"),
		})
	}
	return out
}

// flattenScore joins the two sides' per-set arrays by set number.
func flattenScore(matchDoc Payload) []SetScore {
	p1Sets := setsBySetNumber(getMap(matchDoc, "PlayerTeam1"))
	p2Sets := setsBySetNumber(getMap(matchDoc, "PlayerTeam2"))
	if len(p1Sets) == 0 && len(p2Sets) == 0 {
		return nil
	}

	numbers := make(map[int]struct{}, len(p1Sets)+len(p2Sets))
	for n := range p1Sets {
		numbers[n] = struct{}{}
	}
	for n := range p2Sets {
		numbers[n] = struct{}{}
	}

	ordered := make([]int, 0, len(numbers))
	for n := range numbers {
		if n >= 1 {
			ordered = append(ordered, n)
		}
	}
	sort.Ints(ordered)

	out := make([]SetScore, 0, len(ordered))
	for _, n := range ordered {
		s1 := p1Sets[n]
		s2 := p2Sets[n]
		row := SetScore{
			Set: n,
			P1:  getIntPtr(s1, "SetScore"),
			P2:  getIntPtr(s2, "SetScore"),
		}
		tb1 := getIntPtr(s1, "TieBreakScore")
		tb2 := getIntPtr(s2, "TieBreakScore")
		if tb1 != nil || tb2 != nil {
			row.Tiebreak = &Tiebreak{P1: tb1, P2: tb2}
		}
		out = append(out, row)
	}
	return out
}

func setsBySetNumber(team Payload) map[int]Payload {
	raw, ok := team["Sets"].([]any)
	if !ok {
		return nil
	}

	out := make(map[int]Payload, len(raw))
	for _, item := range raw {
		set, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if n := getInt(set, "SetNumber"); n >= 1 {
			out[n] = set
		}
	}
	return out
}

func getMap(payload Payload, key string) Payload {
	if payload == nil {
		return nil
	}
	if value, ok := payload[key].(map[string]any); ok {
		return value
	}
	return nil
}

// getString normalizes strings and JSON numbers; upstream identifiers switch
// between the two across seasons.
func getString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	switch value := payload[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return fmt.Sprintf("%v", value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

func getInt(payload Payload, key string) int {
	if payload == nil {
		return 0
	}
	switch value := payload[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func getIntPtr(payload Payload, key string) *int {
	if payload == nil {
		return nil
	}
	if _, ok := payload[key]; !ok {
		return nil
	}
	if payload[key] == nil {
		return nil
	}
	value := getInt(payload, key)
	return &value
}

func getBool(payload Payload, key string) bool {
	if payload == nil {
		return false
	}
	value, ok := payload[key].(bool)
	return ok && value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
