package schoolholiday

import "github.com/username/urlaubsplaner/internal/holiday"

// staticPeriods is the built-in school holiday table. Only some
// region/year combinations are maintained; absent combinations resolve to
// no periods.
var staticPeriods = map[holiday.Region]map[int][]Period{
	holiday.Hessen: {
		2025: {
			{Start: "2025-04-07", End: "2025-04-19", Name: "Osterferien"},
			{Start: "2025-07-07", End: "2025-08-15", Name: "Sommerferien"},
			{Start: "2025-10-06", End: "2025-10-18", Name: "Herbstferien"},
			{Start: "2025-12-22", End: "2026-01-10", Name: "Weihnachtsferien"},
		},
		2026: {
			{Start: "2026-03-30", End: "2026-04-11", Name: "Osterferien"},
			{Start: "2026-06-29", End: "2026-08-07", Name: "Sommerferien"},
			{Start: "2026-10-05", End: "2026-10-17", Name: "Herbstferien"},
			{Start: "2026-12-21", End: "2027-01-09", Name: "Weihnachtsferien"},
		},
	},
	holiday.BadenWuerttemberg: {
		2025: {
			{Start: "2025-04-14", End: "2025-04-26", Name: "Osterferien"},
			{Start: "2025-06-10", End: "2025-06-21", Name: "Pfingstferien"},
			{Start: "2025-07-31", End: "2025-09-13", Name: "Sommerferien"},
			{Start: "2025-10-27", End: "2025-10-31", Name: "Herbstferien"},
			{Start: "2025-12-22", End: "2026-01-05", Name: "Weihnachtsferien"},
		},
		2026: {
			{Start: "2026-03-31", End: "2026-04-10", Name: "Osterferien"},
			{Start: "2026-05-26", End: "2026-06-05", Name: "Pfingstferien"},
			{Start: "2026-07-30", End: "2026-09-12", Name: "Sommerferien"},
			{Start: "2026-10-26", End: "2026-10-30", Name: "Herbstferien"},
			{Start: "2026-12-23", End: "2027-01-09", Name: "Weihnachtsferien"},
		},
	},
}

// StaticPeriods returns the built-in periods whose date range touches the
// given year for a region. Periods starting in the previous year but
// running into the requested one (Weihnachtsferien) are included; the
// per-day expansion clips them.
func StaticPeriods(year int, region holiday.Region) []Period {
	byYear, ok := staticPeriods[region]
	if !ok {
		return nil
	}

	var periods []Period
	for _, dataYear := range []int{year - 1, year} {
		periods = append(periods, byYear[dataYear]...)
	}
	return periods
}
