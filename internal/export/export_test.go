package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/urlaubsplaner/internal/holiday"
	"github.com/username/urlaubsplaner/internal/planner"
	"go.uber.org/zap"
)

func newPlanner(t *testing.T, days ...string) *planner.Planner {
	t.Helper()
	p := planner.New(2025, holiday.Hessen, 30, zap.NewNop())
	p.Apply(planner.PlanData{VacationDays: days})
	return p
}

func TestWriteICSEvent(t *testing.T) {
	// Fri Aug 1 plus the following Monday and Tuesday form one block
	p := newPlanner(t, "2025-08-01", "2025-08-04", "2025-08-05")

	var buf strings.Builder
	require.NoError(t, WriteICS(&buf, p, 2025))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "X-WR-CALNAME:Urlaubsplanung 2025")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250801")
	// DTEND is exclusive: the day after the block's last day
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250806")
	assert.Contains(t, out, "SUMMARY:Urlaub")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
}

func TestWriteICSSummaryFromNote(t *testing.T) {
	p := newPlanner(t, "2025-08-01")
	p.SetNote(planner.CategoryVacation, "2025-08-01", "Ostsee; Strand, viel\nRuhe")

	var buf strings.Builder
	require.NoError(t, WriteICS(&buf, p, 2025))

	assert.Contains(t, buf.String(), `SUMMARY:Ostsee\; Strand\, viel\nRuhe`)
}

func TestWriteICSDeterministicUID(t *testing.T) {
	p := newPlanner(t, "2025-08-01")

	var first, second strings.Builder
	require.NoError(t, WriteICS(&first, p, 2025))
	require.NoError(t, WriteICS(&second, p, 2025))

	uid := func(out string) string {
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "UID:") {
				return line
			}
		}
		return ""
	}
	require.NotEmpty(t, uid(first.String()))
	assert.Equal(t, uid(first.String()), uid(second.String()))
}

func TestWriteICSFiltersOtherYears(t *testing.T) {
	p := newPlanner(t, "2024-07-01", "2025-08-01")

	var buf strings.Builder
	require.NoError(t, WriteICS(&buf, p, 2025))

	assert.Equal(t, 1, strings.Count(buf.String(), "BEGIN:VEVENT"))
	assert.NotContains(t, buf.String(), "20240701")
}

func TestWriteCSV(t *testing.T) {
	// Dec 22-24 with the half day on Dec 24
	p := newPlanner(t, "2025-12-22", "2025-12-23", "2025-12-24")
	p.SetNote(planner.CategoryVacation, "2025-12-22", "Weihnachten")

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, p, 2025))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Von,Bis,Urlaubstage,Notiz", lines[0])
	assert.Equal(t, "2025-12-22,2025-12-24,2.5,Weihnachten", lines[1])
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "urlaubsplanung_2025.ics", ICSFilename(2025))
	assert.Equal(t, "urlaubsplanung_2025.csv", CSVFilename(2025))
	assert.Equal(t, "urlaubsplanung_2025.json", JSONFilename(2025))
}
