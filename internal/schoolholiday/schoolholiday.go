// Package schoolholiday resolves the school break periods of a German
// federal state for one year. Periods come from a remote holiday API when
// it answers, with a time-bounded local cache in between; a hardcoded
// static table is the authoritative fallback.
package schoolholiday

import (
	"github.com/username/urlaubsplaner/internal/holiday"
	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// Period is one named school break, bounded by inclusive date keys
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Name  string `json:"name"`
}

// ExpandPeriods writes every day of every period into a holiday map,
// restricted to dates of the requested year. Periods crossing a year
// boundary are clipped; malformed periods are skipped.
func ExpandPeriods(periods []Period, year int) holiday.Map {
	m := make(holiday.Map)

	for _, p := range periods {
		curr, err := dateutil.Parse(p.Start)
		if err != nil {
			continue
		}
		end, err := dateutil.Parse(p.End)
		if err != nil {
			continue
		}

		for !curr.After(end) {
			if curr.Year() == year {
				m[dateutil.Format(curr)] = p.Name
			}
			curr = dateutil.AddDays(curr, 1)
		}
	}

	return m
}
