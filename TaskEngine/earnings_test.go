package TaskEngine

import (
	"math"
	"testing"
	"time"

	"Taskforce/Models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func standardRates() []Models.TariffRate {
	return []Models.TariffRate{
		{WorkerID: 7, DayClass: Models.DayClassWeekday, RatePerMinute: 0.25, ValidFrom: date(2026, time.January, 1)},
		{WorkerID: 7, DayClass: Models.DayClassWeekend, RatePerMinute: 0.40, ValidFrom: date(2026, time.January, 1)},
		{WorkerID: 7, DayClass: Models.DayClassHoliday, RatePerMinute: 0.60, ValidFrom: date(2026, time.January, 1)},
	}
}

func TestComputeEarnings_SingleDay(t *testing.T) {
	// Monday 09:00-17:30: 510 minutes at 0.25.
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)

	result := ComputeEarnings(start, end, standardRates(), nil)
	if !almostEqual(result.Total, 127.5) {
		t.Errorf("Total = %v, want 127.5", result.Total)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(result.Segments))
	}
	if result.Incomplete {
		t.Error("result should not be incomplete")
	}
}

// A shift from Friday 22:30 to Saturday 01:30 splits exactly at midnight:
// 90 weekday minutes at 0.25 plus 90 weekend minutes at 0.40.
func TestComputeEarnings_SplitsAtMidnight(t *testing.T) {
	start := time.Date(2026, 3, 6, 22, 30, 0, 0, time.UTC) // Friday
	end := time.Date(2026, 3, 7, 1, 30, 0, 0, time.UTC)    // Saturday

	result := ComputeEarnings(start, end, standardRates(), nil)

	if len(result.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(result.Segments))
	}
	first, second := result.Segments[0], result.Segments[1]
	if first.DayClass != Models.DayClassWeekday || !almostEqual(first.Minutes, 90) {
		t.Errorf("first segment = %+v, want 90 weekday minutes", first)
	}
	if second.DayClass != Models.DayClassWeekend || !almostEqual(second.Minutes, 90) {
		t.Errorf("second segment = %+v, want 90 weekend minutes", second)
	}
	want := 90*0.25 + 90*0.40
	if !almostEqual(result.Total, want) {
		t.Errorf("Total = %v, want %v", result.Total, want)
	}
}

func TestComputeEarnings_HourAcrossMidnight(t *testing.T) {
	// Friday 23:00 to Saturday 01:00: one weekday hour, one weekend hour.
	start := time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 1, 0, 0, 0, time.UTC)

	result := ComputeEarnings(start, end, standardRates(), nil)
	if len(result.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(result.Segments))
	}
	for i, seg := range result.Segments {
		if !almostEqual(seg.Minutes, 60) {
			t.Errorf("segment %d minutes = %v, want 60", i, seg.Minutes)
		}
	}
}

func TestComputeEarnings_MultipleDays(t *testing.T) {
	// Friday 23:00 through Monday 01:00: weekday, weekend, weekend, weekday.
	start := time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC)

	result := ComputeEarnings(start, end, standardRates(), nil)
	if len(result.Segments) != 4 {
		t.Fatalf("segments = %d, want 4", len(result.Segments))
	}
	wantClasses := []string{
		Models.DayClassWeekday,
		Models.DayClassWeekend,
		Models.DayClassWeekend,
		Models.DayClassWeekday,
	}
	for i, seg := range result.Segments {
		if seg.DayClass != wantClasses[i] {
			t.Errorf("segment %d class = %s, want %s", i, seg.DayClass, wantClasses[i])
		}
	}
	want := 60*0.25 + 1440*0.40 + 1440*0.40 + 60*0.25
	if !almostEqual(result.Total, want) {
		t.Errorf("Total = %v, want %v", result.Total, want)
	}
}

func TestComputeEarnings_FractionalMinutes(t *testing.T) {
	// 90 seconds = 1.5 minutes, not truncated.
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	result := ComputeEarnings(start, end, standardRates(), nil)
	if !almostEqual(result.Total, 1.5*0.25) {
		t.Errorf("Total = %v, want %v", result.Total, 1.5*0.25)
	}
}

func TestComputeEarnings_HolidayRate(t *testing.T) {
	holidays := map[string]bool{"2026-03-02": true}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	result := ComputeEarnings(start, end, standardRates(), holidays)
	if !almostEqual(result.Total, 60*0.60) {
		t.Errorf("Total = %v, want %v", result.Total, 60*0.60)
	}
}

// A missing rate zeroes that day's contribution and flags the result for
// operator review instead of failing or silently under-paying.
func TestComputeEarnings_MissingRateFlagsIncomplete(t *testing.T) {
	rates := []Models.TariffRate{
		{DayClass: Models.DayClassWeekday, RatePerMinute: 0.25, ValidFrom: date(2026, time.January, 1)},
	}
	start := time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC) // Friday into Saturday
	end := time.Date(2026, 3, 7, 1, 0, 0, 0, time.UTC)

	result := ComputeEarnings(start, end, rates, nil)
	if !result.Incomplete {
		t.Fatal("result should be flagged incomplete")
	}
	if len(result.MissingDates) != 1 || result.MissingDates[0] != "2026-03-07" {
		t.Errorf("MissingDates = %v, want [2026-03-07]", result.MissingDates)
	}
	if !almostEqual(result.Total, 60*0.25) {
		t.Errorf("Total = %v, want only the covered weekday hour %v", result.Total, 60*0.25)
	}
}

func TestComputeEarnings_EmptyInterval(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	result := ComputeEarnings(at, at, standardRates(), nil)
	if result.Total != 0 || len(result.Segments) != 0 {
		t.Errorf("empty interval: %+v", result)
	}

	result = ComputeEarnings(at, at.Add(-time.Hour), standardRates(), nil)
	if result.Total != 0 || len(result.Segments) != 0 {
		t.Errorf("inverted interval: %+v", result)
	}
}
