package tournament

import "strings"

// Merge folds fetched calendar entries into an existing registry mapping.
// The input map is never mutated; the returned map holds the merged state.
//
// Rules:
//   - an entry whose TournamentID is missing is skipped and counted, never fatal
//   - a known key updates in place, and only fields the entry actually carries
//     overwrite the stored record (empty strings and non-positive numbers count
//     as "not carried")
//   - keys present in the registry but absent from the batch are retained, so
//     a fetch can never shrink the registry
func Merge(existing map[string]Record, entries []Entry) (map[string]Record, MergeReport) {
	out := make(map[string]Record, len(existing)+len(entries))
	for key, record := range existing {
		out[key] = record
	}

	var report MergeReport
	for _, entry := range entries {
		id := strings.TrimSpace(entry.TournamentID)
		if id == "" {
			report.Skipped++
			continue
		}

		current, known := out[id]
		if !known {
			current = Record{TournamentID: id}
		}

		merged, changed := apply(current, entry)
		out[id] = merged

		switch {
		case !known:
			report.Added++
		case changed:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	return out, report
}

// apply overlays the fields an entry carries onto a record.
func apply(record Record, entry Entry) (Record, bool) {
	before := record

	record.Name = overlayString(record.Name, entry.Name)
	record.StartDate = overlayString(record.StartDate, entry.StartDate)
	record.EndDate = overlayString(record.EndDate, entry.EndDate)
	record.Location = overlayString(record.Location, entry.Location)
	record.Category = overlayString(record.Category, entry.Category)
	record.SeasonYear = overlayInt(record.SeasonYear, entry.SeasonYear)
	record.SglDrawSize = overlayInt(record.SglDrawSize, entry.SglDrawSize)
	record.DblDrawSize = overlayInt(record.DblDrawSize, entry.DblDrawSize)

	return record, record != before
}

func overlayString(current, incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return current
	}
	return incoming
}

func overlayInt(current, incoming int) int {
	if incoming <= 0 {
		return current
	}
	return incoming
}
