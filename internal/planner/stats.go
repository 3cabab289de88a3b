package planner

import (
	"fmt"
	"strings"

	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// UsedDays sums the entitlement cost of the vacation days selected in the
// given year. Dec 24 and Dec 31 cost half a day, every other day one.
func (p *Planner) UsedDays(year int) float64 {
	prefix := fmt.Sprintf("%04d-", year)

	var used float64
	for key := range p.vacation {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if dateutil.IsHalfDayKey(key) {
			used += 0.5
		} else {
			used++
		}
	}
	return used
}

// RemainingDays is the entitlement left after the year's vacation days.
// Negative when the plan overdraws the entitlement.
func (p *Planner) RemainingDays(year int) float64 {
	return float64(p.entitlement) - p.UsedDays(year)
}
