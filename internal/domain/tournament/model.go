package tournament

// Record is one tournament in the registry. TournamentID is the registry key
// and is stable once assigned; every other field may be revised by a later
// calendar fetch.
type Record struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Location     string `json:"location,omitempty"`
	Category     string `json:"category,omitempty"`
	SeasonYear   int    `json:"season_year,omitempty"`
	SglDrawSize  int    `json:"sgl_draw_size,omitempty"`
	DblDrawSize  int    `json:"dbl_draw_size,omitempty"`
}

// Entry is a calendar row as fetched from upstream. Every field except
// TournamentID is optional; an absent field must not overwrite registry data.
type Entry struct {
	TournamentID string
	Name         string
	StartDate    string
	EndDate      string
	Location     string
	Category     string
	SeasonYear   int
	SglDrawSize  int
	DblDrawSize  int
}

// MergeReport summarizes one merge batch.
type MergeReport struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

func (r MergeReport) Total() int {
	return r.Added + r.Updated + r.Unchanged + r.Skipped
}
