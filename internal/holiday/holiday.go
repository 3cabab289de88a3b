// Package holiday computes German public holidays per federal state and
// derives bridge days next to them.
package holiday

import (
	"time"

	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// Region is a German federal state code (Bundesland)
type Region string

const (
	BadenWuerttemberg     Region = "BW"
	Bayern                Region = "BY"
	Berlin                Region = "BE"
	Brandenburg           Region = "BB"
	Bremen                Region = "HB"
	Hamburg               Region = "HH"
	Hessen                Region = "HE"
	MecklenburgVorpommern Region = "MV"
	Niedersachsen         Region = "NI"
	NordrheinWestfalen    Region = "NW"
	RheinlandPfalz        Region = "RP"
	Saarland              Region = "SL"
	Sachsen               Region = "SN"
	SachsenAnhalt         Region = "ST"
	SchleswigHolstein     Region = "SH"
	Thueringen            Region = "TH"
)

// regionNames maps every known region code to its display name
var regionNames = map[Region]string{
	BadenWuerttemberg:     "Baden-Württemberg",
	Bayern:                "Bayern",
	Berlin:                "Berlin",
	Brandenburg:           "Brandenburg",
	Bremen:                "Bremen",
	Hamburg:               "Hamburg",
	Hessen:                "Hessen",
	MecklenburgVorpommern: "Mecklenburg-Vorpommern",
	Niedersachsen:         "Niedersachsen",
	NordrheinWestfalen:    "Nordrhein-Westfalen",
	RheinlandPfalz:        "Rheinland-Pfalz",
	Saarland:              "Saarland",
	Sachsen:               "Sachsen",
	SachsenAnhalt:         "Sachsen-Anhalt",
	SchleswigHolstein:     "Schleswig-Holstein",
	Thueringen:            "Thüringen",
}

// Regions returns all known region codes in a fixed order
func Regions() []Region {
	return []Region{
		BadenWuerttemberg, Bayern, Berlin, Brandenburg, Bremen, Hamburg,
		Hessen, MecklenburgVorpommern, Niedersachsen, NordrheinWestfalen,
		RheinlandPfalz, Saarland, Sachsen, SachsenAnhalt,
		SchleswigHolstein, Thueringen,
	}
}

// Valid reports whether r is one of the known region codes
func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

// Name returns the region's display name, or the raw code if unknown
func (r Region) Name() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return string(r)
}

// Map maps a YYYY-MM-DD date key to a holiday label
type Map map[string]string

type ruleKind int

const (
	ruleFixed  ruleKind = iota // month/day of the given year
	ruleEaster                 // offset in days from Easter Sunday
	rulePenance                // Buß- und Bettag: Wednesday on or before Nov 23
)

// rule is one entry of the holiday table. A nil regions slice means the
// holiday is observed everywhere.
type rule struct {
	name    string
	kind    ruleKind
	month   time.Month
	day     int
	offset  int
	regions []Region
}

// rules is the single source of truth for public holidays. Base holidays
// first, then the regional extras.
var rules = []rule{
	{name: "Neujahr", kind: ruleFixed, month: time.January, day: 1},
	{name: "Tag der Arbeit", kind: ruleFixed, month: time.May, day: 1},
	{name: "Tag der Deutschen Einheit", kind: ruleFixed, month: time.October, day: 3},
	{name: "1. Weihnachtstag", kind: ruleFixed, month: time.December, day: 25},
	{name: "2. Weihnachtstag", kind: ruleFixed, month: time.December, day: 26},
	{name: "Karfreitag", kind: ruleEaster, offset: -2},
	{name: "Ostermontag", kind: ruleEaster, offset: 1},
	{name: "Christi Himmelfahrt", kind: ruleEaster, offset: 39},
	{name: "Pfingstmontag", kind: ruleEaster, offset: 50},

	{name: "Heilige Drei Könige", kind: ruleFixed, month: time.January, day: 6,
		regions: []Region{BadenWuerttemberg, Bayern, SachsenAnhalt}},
	{name: "Fronleichnam", kind: ruleEaster, offset: 60,
		regions: []Region{BadenWuerttemberg, Bayern, Hessen, NordrheinWestfalen, RheinlandPfalz, Saarland}},
	{name: "Mariä Himmelfahrt", kind: ruleFixed, month: time.August, day: 15,
		regions: []Region{Bayern}},
	{name: "Reformationstag", kind: ruleFixed, month: time.October, day: 31,
		regions: []Region{Brandenburg, Bremen, Hamburg, MecklenburgVorpommern, Niedersachsen, SchleswigHolstein, Sachsen, SachsenAnhalt, Thueringen}},
	{name: "Allerheiligen", kind: ruleFixed, month: time.November, day: 1,
		regions: []Region{BadenWuerttemberg, Bayern, NordrheinWestfalen, RheinlandPfalz, Saarland}},
	{name: "Buß- und Bettag", kind: rulePenance,
		regions: []Region{Sachsen}},
	{name: "Internationaler Frauentag", kind: ruleFixed, month: time.March, day: 8,
		regions: []Region{Berlin}},
}

// Easter returns Easter Sunday of the given year in the Gregorian
// calendar, using the Meeus/Jones/Butcher algorithm.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return dateutil.Date(year, time.Month(month), day)
}

// ForYear returns the public holidays of one year for the given region.
// Unknown regions get the nationwide base holidays only.
func ForYear(year int, region Region) Map {
	easter := Easter(year)
	holidays := make(Map)

	for _, r := range rules {
		if r.regions != nil && !containsRegion(r.regions, region) {
			continue
		}

		var date time.Time
		switch r.kind {
		case ruleFixed:
			date = dateutil.Date(year, r.month, r.day)
		case ruleEaster:
			date = dateutil.AddDays(easter, r.offset)
		case rulePenance:
			// Wednesday on or immediately before Nov 23
			date = dateutil.Date(year, time.November, 22)
			for date.Weekday() != time.Wednesday {
				date = dateutil.AddDays(date, -1)
			}
		}

		holidays[dateutil.Format(date)] = r.name
	}

	return holidays
}

func containsRegion(regions []Region, region Region) bool {
	for _, r := range regions {
		if r == region {
			return true
		}
	}
	return false
}
