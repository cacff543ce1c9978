package TaskEngine

import (
	"time"

	"Taskforce/Models"
)

// EarningsSegment is the contribution of one calendar day to an interval's
// earnings. Minutes are fractional; rounding is a display concern.
type EarningsSegment struct {
	Date     string  `json:"date"`
	DayClass string  `json:"day_class"`
	Minutes  float64 `json:"minutes"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

type EarningsResult struct {
	Total    float64           `json:"total"`
	Segments []EarningsSegment `json:"segments"`

	// Incomplete is set when a sub-interval had no applicable rate. Its
	// contribution is zero and the date is listed for operator review;
	// the computation never fails on a tariff gap.
	Incomplete   bool     `json:"incomplete"`
	MissingDates []string `json:"missing_dates,omitempty"`
}

// ComputeEarnings converts [start, end) into money. The interval is split at
// every midnight boundary, each sub-interval is classified and billed at its
// own rate, and the parts are summed.
func ComputeEarnings(start, end time.Time, rates []Models.TariffRate, holidays map[string]bool) EarningsResult {
	result := EarningsResult{Segments: []EarningsSegment{}}
	if !end.After(start) {
		return result
	}

	cur := start
	for cur.Before(end) {
		nextMidnight := time.Date(cur.Year(), cur.Month(), cur.Day()+1, 0, 0, 0, 0, cur.Location())
		segEnd := nextMidnight
		if end.Before(segEnd) {
			segEnd = end
		}

		minutes := segEnd.Sub(cur).Minutes()
		dayClass := ClassifyDay(cur, holidays)

		segment := EarningsSegment{
			Date:     cur.Format(holidayDateLayout),
			DayClass: dayClass,
			Minutes:  minutes,
		}

		rate, err := ResolveRate(cur, dayClass, rates)
		if err != nil {
			result.Incomplete = true
			result.MissingDates = append(result.MissingDates, segment.Date)
		} else {
			segment.Rate = rate
			segment.Amount = minutes * rate
			result.Total += segment.Amount
		}

		result.Segments = append(result.Segments, segment)
		cur = segEnd
	}
	return result
}

// CalculateEarnings is the computed procedure over the rate store: it loads
// the worker's rates and the holiday calendar before delegating to
// ComputeEarnings.
func (e *Engine) CalculateEarnings(workerID uint, start, end time.Time) (EarningsResult, error) {
	rates, err := e.Rates.RatesFor(workerID)
	if err != nil {
		return EarningsResult{}, err
	}
	holidays, err := e.Rates.HolidaySet()
	if err != nil {
		return EarningsResult{}, err
	}
	return ComputeEarnings(start, end, rates, holidays), nil
}
