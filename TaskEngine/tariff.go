package TaskEngine

import (
	"time"

	"Taskforce/Models"
)

const holidayDateLayout = "2006-01-02"

// ClassifyDay returns the day class for a calendar date. A holiday flag
// overrides the weekday/weekend split.
func ClassifyDay(date time.Time, holidays map[string]bool) string {
	if holidays[date.Format(holidayDateLayout)] {
		return Models.DayClassHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Models.DayClassWeekend
	}
	return Models.DayClassWeekday
}

// ResolveRate picks the applicable per-minute rate for a date and day class:
// among rates with ValidFrom <= date <= ValidTo (open-ended when ValidTo is
// nil), the one with the latest ValidFrom wins. Absence is ErrTariffNotFound.
func ResolveRate(date time.Time, dayClass string, rates []Models.TariffRate) (float64, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var best *Models.TariffRate
	for i := range rates {
		r := &rates[i]
		if r.DayClass != dayClass {
			continue
		}
		if r.ValidFrom.After(day) {
			continue
		}
		if r.ValidTo != nil && r.ValidTo.Before(day) {
			continue
		}
		if best == nil || r.ValidFrom.After(best.ValidFrom) {
			best = r
		}
	}
	if best == nil {
		return 0, ErrTariffNotFound
	}
	return best.RatePerMinute, nil
}
