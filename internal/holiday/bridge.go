package holiday

import (
	"time"

	"github.com/username/urlaubsplaner/pkg/dateutil"
)

// BridgeDays derives bridge days from a year's public holidays: the Monday
// before a Tuesday holiday and the Friday after a Thursday holiday, unless
// that day is itself a holiday. Holidays on other weekdays produce no
// bridge day. If two holidays derive the same date the later write wins.
func BridgeDays(holidays Map) Map {
	bridges := make(Map)

	for key, name := range holidays {
		date, err := dateutil.Parse(key)
		if err != nil {
			continue
		}

		switch date.Weekday() {
		case time.Tuesday:
			monday := dateutil.Format(dateutil.AddDays(date, -1))
			if _, taken := holidays[monday]; !taken {
				bridges[monday] = "Brückentag vor " + name
			}
		case time.Thursday:
			friday := dateutil.Format(dateutil.AddDays(date, 1))
			if _, taken := holidays[friday]; !taken {
				bridges[friday] = "Brückentag nach " + name
			}
		}
	}

	return bridges
}
