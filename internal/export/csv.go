package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/username/urlaubsplaner/internal/planner"
	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// WriteCSV renders the vacation groups of one year as a summary table:
// one row per contiguous block with its day cost and note.
func WriteCSV(w io.Writer, p *planner.Planner, year int) error {
	cw := csv.NewWriter(w)
	notes := p.Notes(planner.CategoryVacation)

	if err := cw.Write([]string{"Von", "Bis", "Urlaubstage", "Notiz"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, group := range p.GroupsForYear(planner.CategoryVacation, year) {
		var cost float64
		for _, key := range group {
			if dateutil.IsHalfDayKey(key) {
				cost += 0.5
			} else {
				cost++
			}
		}

		row := []string{
			group[0],
			group[len(group)-1],
			strconv.FormatFloat(cost, 'f', -1, 64),
			notes[group[0]],
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFilename is the suggested file name of a year's CSV export
func CSVFilename(year int) string {
	return fmt.Sprintf("urlaubsplanung_%d.csv", year)
}

// JSONFilename is the suggested file name of a plan document export
func JSONFilename(year int) string {
	return fmt.Sprintf("urlaubsplanung_%d.json", year)
}
