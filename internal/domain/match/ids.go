package match

import "fmt"

const (
	// DefaultDrawSize is assumed when a tournament's singles draw size is
	// unknown (numeric pass-through IDs with no registry record).
	DefaultDrawSize = 32

	// MaxQualifiers caps qualifier probing; upstream never documents the
	// qualifying draw size per event.
	MaxQualifiers = 20
)

// MainDrawIDs derives the main-draw match identifiers for a singles draw.
// A draw of N players plays N-1 matches, ms001..ms{N-1}.
func MainDrawIDs(drawSize int) []string {
	if drawSize < 2 {
		return nil
	}

	out := make([]string, 0, drawSize-1)
	for i := 1; i < drawSize; i++ {
		out = append(out, fmt.Sprintf("ms%03d", i))
	}
	return out
}

// QualifierIDs derives qualifying-round identifiers qs001..qs{max}.
func QualifierIDs(max int) []string {
	if max <= 0 {
		return nil
	}

	out := make([]string, 0, max)
	for i := 1; i <= max; i++ {
		out = append(out, fmt.Sprintf("qs%03d", i))
	}
	return out
}

// CandidateIDs is the full probe list for a tournament: main draw then
// qualifiers.
func CandidateIDs(drawSize int) []string {
	main := MainDrawIDs(drawSize)
	return append(main, QualifierIDs(MaxQualifiers)...)
}
