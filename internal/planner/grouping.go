package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// Groups collapses the selected days of a category into maximal
// contiguous blocks, sorted ascending across and within groups.
//
// Blocked days group only on strict calendar adjacency. Vacation days also
// group across gaps whose every day is skippable: a weekend, a public
// holiday, or a blocked day. A blocked day bridges the gap without
// becoming part of the group.
func (p *Planner) Groups(cat Category) [][]string {
	return groupDates(p.Days(cat), cat, p)
}

// GroupsForYear returns only the groups anchored in the given year
func (p *Planner) GroupsForYear(cat Category, year int) [][]string {
	prefix := fmt.Sprintf("%04d-", year)

	var groups [][]string
	for _, group := range p.Groups(cat) {
		if strings.HasPrefix(group[0], prefix) {
			groups = append(groups, group)
		}
	}
	return groups
}

func groupDates(keys []string, cat Category, p *Planner) [][]string {
	if len(keys) == 0 {
		return nil
	}

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	var groups [][]string
	current := []string{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		prev, err := dateutil.Parse(sorted[i-1])
		if err != nil {
			continue
		}
		curr, err := dateutil.Parse(sorted[i])
		if err != nil {
			continue
		}

		contiguous := true
		if cat == CategoryBlocked {
			contiguous = dateutil.Format(dateutil.AddDays(prev, 1)) == sorted[i]
		} else {
			for gap := dateutil.AddDays(prev, 1); gap.Before(curr); gap = dateutil.AddDays(gap, 1) {
				if !p.skippableGapDay(gap) {
					contiguous = false
					break
				}
			}
		}

		if contiguous {
			current = append(current, sorted[i])
		} else {
			groups = append(groups, current)
			current = []string{sorted[i]}
		}
	}

	return append(groups, current)
}

// skippableGapDay reports whether a day inside a gap lets two vacation
// days count as one block
func (p *Planner) skippableGapDay(date time.Time) bool {
	if dateutil.IsWeekend(date) {
		return true
	}
	key := dateutil.Format(date)
	if _, isHoliday := p.holidays[key]; isHoliday {
		return true
	}
	return p.blocked[key]
}
