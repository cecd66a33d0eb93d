package h2h

import (
	"regexp"
	"strconv"
	"strings"
)

// Payload is the raw nested head-to-head document as upstream returns it.
type Payload = map[string]any

// Flattened wraps the flattened match sequence together with the untouched
// side metadata, so flattening augments the raw structure instead of
// replacing it.
type Flattened struct {
	PlayerLeft  any       `json:"playerLeft"`
	PlayerRight any       `json:"playerRight"`
	Matches     []Summary `json:"matches"`
}

// Summary is one head-to-head match projected into a flat record. PlayerTeam
// and OpponentTeam carry the original team groupings through unmodified.
type Summary struct {
	Tournament    string        `json:"tournament,omitempty"`
	Year          int           `json:"year,omitempty"`
	Round         string        `json:"round,omitempty"`
	Winner        any           `json:"winner"`
	Surface       string        `json:"surface,omitempty"`
	IndoorOutdoor string        `json:"indoor_outdoor,omitempty"`
	MatchID       string        `json:"match_id,omitempty"`
	Result        string        `json:"result,omitempty"`
	Sets          []ResultSet   `json:"sets"`
	PlayerTeam    any           `json:"player_team"`
	OpponentTeam  any           `json:"opponent_team"`
	UpstreamSets  []UpstreamSet `json:"upstream_sets"`
	MatchStatsURL string        `json:"match_stats_url,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

// ResultSet is one set parsed out of a website-schema result string.
type ResultSet struct {
	Set      int  `json:"set"`
	P1       int  `json:"p1"`
	P2       int  `json:"p2"`
	Tiebreak *int `json:"tiebreak"`
}

// UpstreamSet mirrors the structured per-set data the upstream schema nests
// under PlayerTeam.Sets.
type UpstreamSet struct {
	SetNumber      *int `json:"set_number"`
	PlayerGames    *int `json:"player_games"`
	PlayerTiebreak *int `json:"player_tiebreak"`
	WonSet         any  `json:"won_set"`
}

// setTokenRegex matches one result-string token, e.g. "76(7)": the digit run
// holds both games counts as single digits, the parenthesized part is the
// losing tiebreak score.
var setTokenRegex = regexp.MustCompile(`^(\d+)(?:\((\d+)\))?$`)

// terminalMarkers end result-string parsing; anything after a retirement or
// walkover marker is not a played set.
var terminalMarkers = map[string]struct{}{
	"RET": {}, "W/O": {}, "WO": {}, "DEF": {}, "ABN": {}, "BYE": {}, "CANC": {},
}

// Flatten projects the raw payload into the flattened shape, keeping the raw
// playerLeft/playerRight side metadata accessible.
func Flatten(raw Payload) Flattened {
	return Flattened{
		PlayerLeft:  raw["playerLeft"],
		PlayerRight: raw["playerRight"],
		Matches:     FlattenMatches(raw),
	}
}

// FlattenMatches walks both tournament sections in upstream order and emits
// one Summary per match, preserving match order within each tournament.
// It supports both the upstream schema (TournamentName + MatchResults) and
// the website schema (EventDisplayName + Matches + ResultString).
func FlattenMatches(raw Payload) []Summary {
	var out []Summary

	for _, section := range []string{"Tournaments", "OtherTournaments"} {
		tournaments, ok := raw[section].([]any)
		if !ok {
			continue
		}
		for _, item := range tournaments {
			tournament, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, flattenTournament(tournament)...)
		}
	}

	return out
}

func flattenTournament(tournament Payload) []Summary {
	name := firstNonEmpty(
		getString(tournament, "TournamentName"),
		getString(tournament, "EventDisplayName"),
		getString(tournament, "EventName"),
	)
	year := getInt(tournament, "EventYear")
	surface := getString(tournament, "Surface")
	indoorOutdoor := getString(tournament, "InOutdoorDisplay")

	matchList, ok := tournament["MatchResults"].([]any)
	if !ok {
		matchList, _ = tournament["Matches"].([]any)
	}

	out := make([]Summary, 0, len(matchList))
	for _, item := range matchList {
		matchDoc, ok := item.(map[string]any)
		if !ok {
			continue
		}

		result := getString(matchDoc, "ResultString")
		summary := Summary{
			Tournament:    name,
			Year:          year,
			Round:         roundShortName(matchDoc),
			Winner:        matchDoc["Winner"],
			Surface:       surface,
			IndoorOutdoor: indoorOutdoor,
			MatchID:       getString(matchDoc, "MatchId"),
			Result:        result,
			Sets:          ParseResultString(result),
			PlayerTeam:    matchDoc["PlayerTeam"],
			OpponentTeam:  matchDoc["OpponentTeam"],
			UpstreamSets:  upstreamSets(matchDoc),
			MatchStatsURL: getString(matchDoc, "MatchStatsUrl"),
			Reason:        getString(matchDoc, "Reason"),
		}
		out = append(out, summary)
	}
	return out
}

// ParseResultString parses a website-schema result string like "6 4 7 6(5)"
// into per-set scores. Tokens with fewer than two digits are skipped; parsing
// stops at a retirement/walkover marker. Returns nil when nothing parses.
func ParseResultString(result string) []ResultSet {
	tokens := strings.Fields(strings.TrimSpace(result))
	if len(tokens) == 0 {
		return nil
	}

	var out []ResultSet
	for _, token := range tokens {
		if _, terminal := terminalMarkers[strings.ToUpper(token)]; terminal {
			break
		}

		groups := setTokenRegex.FindStringSubmatch(token)
		if groups == nil {
			continue
		}
		digits := groups[1]
		if len(digits) < 2 {
			continue
		}

		set := ResultSet{
			Set: len(out) + 1,
			P1:  int(digits[0] - '0'),
			P2:  int(digits[1] - '0'),
		}
		if groups[2] != "" {
			tb, err := strconv.Atoi(groups[2])
			if err == nil {
				set.Tiebreak = &tb
			}
		}
		out = append(out, set)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func roundShortName(matchDoc Payload) string {
	round, ok := matchDoc["Round"].(map[string]any)
	if !ok {
		return ""
	}
	return getString(round, "ShortName")
}

func upstreamSets(matchDoc Payload) []UpstreamSet {
	team, ok := matchDoc["PlayerTeam"].(map[string]any)
	if !ok {
		return nil
	}
	sets, ok := team["Sets"].([]any)
	if !ok {
		return nil
	}

	out := make([]UpstreamSet, 0, len(sets))
	for _, item := range sets {
		set, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, UpstreamSet{
			SetNumber:      getIntPtr(set, "SetNumber"),
			PlayerGames:    getIntPtr(set, "SetScore"),
			PlayerTiebreak: getIntPtr(set, "TieBreakScore"),
			WonSet:         set["WonSet"],
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func getString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
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
	if payload == nil || payload[key] == nil {
		return nil
	}
	switch payload[key].(type) {
	case float64, int, string:
		value := getInt(payload, key)
		return &value
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
