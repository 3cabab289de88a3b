// Package planner holds the vacation planning state: the two selected day
// sets, their notes, the two-click range selection gestures, and the
// holiday maps they are checked against.
package planner

import (
	"context"
	"sort"
	"time"

	"github.com/username/urlaubsplaner/internal/holiday"
	"github.com/username/urlaubsplaner/internal/schoolholiday"
	"github.com/username/urlaubsplaner/pkg/dateutil"
	"go.uber.org/zap"
)

// Category distinguishes the two kinds of selected days
type Category string

const (
	CategoryVacation Category = "vacation"
	CategoryBlocked  Category = "blocked"
)

// ToggleResult reports what a toggle call did
type ToggleResult int

const (
	// ToggleRejected means the date was not a valid target; any pending
	// anchor of the category was cleared
	ToggleRejected ToggleResult = iota
	// ToggleAnchored means the date was stored as the range anchor
	ToggleAnchored
	// ToggleAdded means the range from anchor to date was added
	ToggleAdded
	// ToggleRemoved means the range from anchor to date was removed
	ToggleRemoved
)

// Planner is the single-writer planning state for one person.
// Holiday maps are recomputed whenever year or region changes; day sets,
// notes and scalars are the persisted state.
type Planner struct {
	year        int
	region      holiday.Region
	entitlement int

	vacation      map[string]bool
	blocked       map[string]bool
	vacationNotes map[string]string
	blockedNotes  map[string]string

	// at most one in-flight anchor per category, "" when idle
	pending map[Category]string

	holidays       holiday.Map
	schoolHolidays holiday.Map
	bridgeDays     holiday.Map

	logger        *zap.Logger
	onChange      func()
	refreshCancel context.CancelFunc
}

// New creates a planner for the given year and region
func New(year int, region holiday.Region, entitlement int, logger *zap.Logger) *Planner {
	p := &Planner{
		year:          year,
		region:        region,
		entitlement:   entitlement,
		vacation:      make(map[string]bool),
		blocked:       make(map[string]bool),
		vacationNotes: make(map[string]string),
		blockedNotes:  make(map[string]string),
		pending:       make(map[Category]string),
		logger:        logger,
	}
	p.recompute()
	return p
}

// OnChange registers a callback fired after every persisted-state change.
// The storage layer hangs its debounced save here.
func (p *Planner) OnChange(fn func()) {
	p.onChange = fn
}

func (p *Planner) markChanged() {
	if p.onChange != nil {
		p.onChange()
	}
}

// recompute rebuilds the derived holiday maps from (year, region).
// School holidays are cleared; they arrive asynchronously via
// RefreshSchoolHolidays.
func (p *Planner) recompute() {
	p.holidays = holiday.ForYear(p.year, p.region)
	p.bridgeDays = holiday.BridgeDays(p.holidays)
	p.schoolHolidays = make(holiday.Map)
}

// Year returns the displayed year
func (p *Planner) Year() int { return p.year }

// Region returns the federal state
func (p *Planner) Region() holiday.Region { return p.region }

// Entitlement returns the total leave entitlement in days
func (p *Planner) Entitlement() int { return p.entitlement }

// Holidays returns the public holidays of the current year and region
func (p *Planner) Holidays() holiday.Map { return p.holidays }

// SchoolHolidays returns the resolved school holiday days
func (p *Planner) SchoolHolidays() holiday.Map { return p.schoolHolidays }

// BridgeDays returns the derived bridge days
func (p *Planner) BridgeDays() holiday.Map { return p.bridgeDays }

// Pending returns the in-flight anchor of a category, or "" when idle
func (p *Planner) Pending(cat Category) string { return p.pending[cat] }

// SetYear switches the planner to another year. Derived maps are
// recomputed, pending gestures and any in-flight school holiday fetch are
// abandoned.
func (p *Planner) SetYear(year int) {
	if year == p.year {
		return
	}
	p.year = year
	p.abandonTransient()
	p.recompute()
	p.markChanged()
}

// SetRegion switches the planner to another federal state
func (p *Planner) SetRegion(region holiday.Region) {
	if region == p.region {
		return
	}
	p.region = region
	p.abandonTransient()
	p.recompute()
	p.markChanged()
}

// SetEntitlement updates the total leave entitlement
func (p *Planner) SetEntitlement(days int) {
	if days == p.entitlement {
		return
	}
	p.entitlement = days
	p.markChanged()
}

func (p *Planner) abandonTransient() {
	p.pending = make(map[Category]string)
	if p.refreshCancel != nil {
		p.refreshCancel()
		p.refreshCancel = nil
	}
}

// RefreshSchoolHolidays resolves the school holidays of the current year
// and region. A previous in-flight refresh is aborted, and a result that
// arrives after the planner moved to another (year, region) is discarded.
func (p *Planner) RefreshSchoolHolidays(ctx context.Context, resolver *schoolholiday.Resolver) error {
	if p.refreshCancel != nil {
		p.refreshCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.refreshCancel = cancel

	year, region := p.year, p.region

	m, err := resolver.Resolve(ctx, year, region)
	if err != nil {
		return err
	}

	if year != p.year || region != p.region {
		p.logger.Debug("Discarding school holidays for superseded selection",
			zap.Int("year", year),
			zap.String("region", string(region)))
		return nil
	}

	p.schoolHolidays = m
	return nil
}

// setsFor returns the set of a category and the set of the other one
func (p *Planner) setsFor(cat Category) (own, other map[string]bool) {
	if cat == CategoryBlocked {
		return p.blocked, p.vacation
	}
	return p.vacation, p.blocked
}

// notesFor returns the note map of a category
func (p *Planner) notesFor(cat Category) map[string]string {
	if cat == CategoryBlocked {
		return p.blockedNotes
	}
	return p.vacationNotes
}

// Days returns the selected days of a category, sorted ascending
func (p *Planner) Days(cat Category) []string {
	own, _ := p.setsFor(cat)
	keys := make([]string, 0, len(own))
	for key := range own {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether a day is selected under a category
func (p *Planner) Has(cat Category, key string) bool {
	own, _ := p.setsFor(cat)
	return own[key]
}

// Toggle feeds one click of the two-click range gesture into the state
// machine of a category.
//
// A public holiday is never a valid target; a weekend day is additionally
// invalid for vacation. An invalid target clears the category's anchor.
// The first valid click anchors the gesture; the second click resolves the
// inclusive range between anchor and click. If the anchor is currently
// selected the range is removed, otherwise it is added and stolen from the
// other category.
func (p *Planner) Toggle(cat Category, key string) (ToggleResult, error) {
	date, err := dateutil.Parse(key)
	if err != nil {
		return ToggleRejected, err
	}

	_, isHoliday := p.holidays[key]
	if isHoliday || (cat == CategoryVacation && dateutil.IsWeekend(date)) {
		delete(p.pending, cat)
		return ToggleRejected, nil
	}

	anchor := p.pending[cat]
	if anchor == "" {
		p.pending[cat] = key
		return ToggleAnchored, nil
	}
	delete(p.pending, cat)

	anchorDate, err := dateutil.Parse(anchor)
	if err != nil {
		// Should not happen: anchors are validated on the first click
		return ToggleRejected, err
	}

	lo, hi := dateutil.MinMax(anchorDate, date)
	keys := p.DatesInRange(lo, hi, cat == CategoryBlocked)

	own, other := p.setsFor(cat)

	if own[anchor] {
		for _, k := range keys {
			delete(own, k)
		}
		p.markChanged()
		return ToggleRemoved, nil
	}

	for _, k := range keys {
		own[k] = true
		delete(other, k)
	}
	p.markChanged()
	return ToggleAdded, nil
}

// DatesInRange lists the date keys from start to end inclusive. Unless
// includeWeekends is set, weekends and public holidays are left out.
func (p *Planner) DatesInRange(start, end time.Time, includeWeekends bool) []string {
	lo, hi := dateutil.MinMax(start, end)

	var keys []string
	for curr := lo; !curr.After(hi); curr = dateutil.AddDays(curr, 1) {
		key := dateutil.Format(curr)
		if includeWeekends {
			keys = append(keys, key)
			continue
		}
		if _, isHoliday := p.holidays[key]; !isHoliday && !dateutil.IsWeekend(curr) {
			keys = append(keys, key)
		}
	}
	return keys
}

// RemoveGroup deselects every day of a group. A note stored under the
// group's anchor is left in place, exactly like removing the days one by
// one would.
func (p *Planner) RemoveGroup(cat Category, group []string) {
	own, _ := p.setsFor(cat)
	for _, key := range group {
		delete(own, key)
	}
	p.markChanged()
}

// EditVacationGroup replaces one vacation group with the inclusive range
// newStart..newEnd (weekends and holidays excluded as usual). A note
// stored under the old anchor moves to the new start date.
func (p *Planner) EditVacationGroup(oldGroup []string, newStart, newEnd string) error {
	startDate, err := dateutil.Parse(newStart)
	if err != nil {
		return err
	}
	endDate, err := dateutil.Parse(newEnd)
	if err != nil {
		return err
	}

	keys := p.DatesInRange(startDate, endDate, false)

	for _, key := range oldGroup {
		delete(p.vacation, key)
	}
	for _, key := range keys {
		p.vacation[key] = true
	}

	if len(oldGroup) > 0 && oldGroup[0] != newStart {
		if note, ok := p.vacationNotes[oldGroup[0]]; ok {
			delete(p.vacationNotes, oldGroup[0])
			p.vacationNotes[newStart] = note
		}
	}

	p.markChanged()
	return nil
}

// SetNote stores a free-text note under a group's anchor date. An empty
// text removes the note.
func (p *Planner) SetNote(cat Category, anchor, text string) {
	notes := p.notesFor(cat)
	if text == "" {
		delete(notes, anchor)
	} else {
		notes[anchor] = text
	}
	p.markChanged()
}

// Note returns the note stored under a group anchor
func (p *Planner) Note(cat Category, anchor string) string {
	return p.notesFor(cat)[anchor]
}

// Notes returns a copy of the note map of a category
func (p *Planner) Notes(cat Category) map[string]string {
	notes := p.notesFor(cat)
	out := make(map[string]string, len(notes))
	for key, text := range notes {
		out[key] = text
	}
	return out
}

// NotesByDay projects group-anchor notes onto every day of the annotated
// group, for per-day display.
func (p *Planner) NotesByDay(cat Category) map[string]string {
	notes := p.notesFor(cat)
	byDay := make(map[string]string)

	for _, group := range p.Groups(cat) {
		note, ok := notes[group[0]]
		if !ok {
			continue
		}
		for _, key := range group {
			byDay[key] = note
		}
	}
	return byDay
}
