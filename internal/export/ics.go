// Package export renders the planned vacation groups into interchange
// formats: iCalendar, CSV and the JSON plan document.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/username/urlaubsplaner/internal/planner"
	"github.com/username/urlaubsplaner/pkg/dateutil"
)

const icsProductID = "-//Urlaubsplaner//Urlaubsplaner Pro//DE"

// uidNamespace keys the deterministic event UIDs. Exporting the same plan
// twice yields identical UIDs, so calendar apps update instead of
// duplicating.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urlaubsplaner.invalid"))

// WriteICS renders the vacation groups of one year as all-day iCalendar
// events. Each contiguous group becomes one VEVENT spanning first to last
// day; DTEND is exclusive per RFC 5545.
func WriteICS(w io.Writer, p *planner.Planner, year int) error {
	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", icsProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Urlaubsplanung %d\n", year)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	stamp := time.Now().UTC().Format("20060102T150405Z")
	notes := p.Notes(planner.CategoryVacation)

	for _, group := range p.GroupsForYear(planner.CategoryVacation, year) {
		start, err := dateutil.Parse(group[0])
		if err != nil {
			continue
		}
		end, err := dateutil.Parse(group[len(group)-1])
		if err != nil {
			continue
		}

		summary := notes[group[0]]
		if summary == "" {
			summary = "Urlaub"
		}

		uid := uuid.NewSHA1(uidNamespace,
			[]byte(fmt.Sprintf("%s/%s/%s", group[0], group[len(group)-1], p.Region())))

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s@urlaubsplaner\n", uid)
		fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", start.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", dateutil.AddDays(end, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", escapeText(summary))
		fmt.Fprintf(w, "DESCRIPTION:%s\n",
			escapeText(fmt.Sprintf("Urlaub vom %s bis %s", group[0], group[len(group)-1])))
		fmt.Fprintln(w, "TRANSP:TRANSPARENT")
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
	return nil
}

// escapeText escapes TEXT property values per RFC 5545 section 3.3.11
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, ";", `\;`)
	return s
}

// ICSFilename is the suggested file name of a year's calendar export
func ICSFilename(year int) string {
	return fmt.Sprintf("urlaubsplanung_%d.ics", year)
}
