package snapshot

import "time"

// Snapshot is one archived raw upstream response, kept so operators can audit
// upstream contract drift between fetches.
type Snapshot struct {
	Source      string
	Kind        string
	Key         string
	PayloadJSON string
	PayloadHash string
	CapturedAt  time.Time
}

const (
	SourceATPTour          = "atptour"
	KindTournamentCalendar = "tournament_calendar"
)
