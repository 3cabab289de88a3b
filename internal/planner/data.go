package planner

import (
	"github.com/username/urlaubsplaner/internal/holiday"
	"github.com/username/urlaubsplaner/pkg/dateutil"
	"go.uber.org/zap"
)

// PlanData is the persisted and interchanged form of the planning state.
// The JSON field names are the on-disk format of plan files and exports.
type PlanData struct {
	VacationDays     []string          `json:"vacationDays"`
	BlockedDays      []string          `json:"blockedDays"`
	VacationNotes    map[string]string `json:"vacationNotes"`
	BlockedNotes     map[string]string `json:"blockedNotes"`
	TotalEntitlement int               `json:"totalEntitlement"`
	FederalState     string            `json:"federalState"`
	Year             int               `json:"year"`
	LastUpdated      string            `json:"lastUpdated,omitempty"`
}

// Data snapshots the persisted state
func (p *Planner) Data() PlanData {
	return PlanData{
		VacationDays:     p.Days(CategoryVacation),
		BlockedDays:      p.Days(CategoryBlocked),
		VacationNotes:    p.Notes(CategoryVacation),
		BlockedNotes:     p.Notes(CategoryBlocked),
		TotalEntitlement: p.entitlement,
		FederalState:     string(p.region),
		Year:             p.year,
	}
}

// Apply merges a loaded or imported document into the planner. The
// document may be partial: zero-valued fields leave the current state
// untouched. Malformed date keys and unknown region codes are dropped
// with a warning, never applied.
func (p *Planner) Apply(data PlanData) {
	if data.VacationDays != nil {
		p.vacation = p.sanitizeDays(data.VacationDays, CategoryVacation)
	}
	if data.BlockedDays != nil {
		p.blocked = p.sanitizeDays(data.BlockedDays, CategoryBlocked)
	}
	if data.VacationNotes != nil {
		p.vacationNotes = copyNotes(data.VacationNotes)
	}
	if data.BlockedNotes != nil {
		p.blockedNotes = copyNotes(data.BlockedNotes)
	}
	if data.TotalEntitlement != 0 {
		p.entitlement = data.TotalEntitlement
	}
	if data.FederalState != "" {
		region := holiday.Region(data.FederalState)
		if region.Valid() {
			p.region = region
		} else {
			p.logger.Warn("Ignoring unknown federal state",
				zap.String("federal_state", data.FederalState))
		}
	}
	if data.Year != 0 {
		p.year = data.Year
	}

	p.abandonTransient()
	p.recompute()
	p.markChanged()
}

func (p *Planner) sanitizeDays(keys []string, cat Category) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		if _, err := dateutil.Parse(key); err != nil {
			p.logger.Warn("Dropping malformed date key",
				zap.String("category", string(cat)),
				zap.String("key", key))
			continue
		}
		set[key] = true
	}
	return set
}

func copyNotes(notes map[string]string) map[string]string {
	out := make(map[string]string, len(notes))
	for key, text := range notes {
		out[key] = text
	}
	return out
}
