package services

import (
	"testing"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
)

func testCalendar() *CalendarService {
	return NewCalendarService([]models.Holiday{
		{Date: date(2025, time.May, 1), Name: "Labour Day"},
		{Date: date(2025, time.December, 25), Name: "Christmas Day"},
	})
}

func TestIsWeekend(t *testing.T) {
	cal := testCalendar()

	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.May, 2), false}, // Friday
		{date(2025, time.May, 3), true},  // Saturday
		{date(2025, time.May, 4), true},  // Sunday
		{date(2025, time.May, 5), false}, // Monday
		{date(2025, time.May, 1), false}, // holiday but a Thursday
	}
	for _, tt := range tests {
		if got := cal.IsWeekend(tt.day); got != tt.want {
			t.Errorf("IsWeekend(%s) = %t, want %t", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestIsHolidayAndName(t *testing.T) {
	cal := testCalendar()

	if !cal.IsHoliday(date(2025, time.May, 1)) {
		t.Error("expected 2025-05-01 to be a holiday")
	}
	if cal.IsHoliday(date(2025, time.May, 2)) {
		t.Error("expected 2025-05-02 not to be a holiday")
	}

	name, ok := cal.HolidayName(date(2025, time.December, 25))
	if !ok || name != "Christmas Day" {
		t.Errorf("HolidayName(2025-12-25) = %q, %t; want \"Christmas Day\", true", name, ok)
	}
	if _, ok := cal.HolidayName(date(2025, time.December, 24)); ok {
		t.Error("expected no holiday name for 2025-12-24")
	}

	// Lookups ignore the time-of-day component.
	noon := time.Date(2025, time.May, 1, 12, 30, 0, 0, time.UTC)
	if !cal.IsHoliday(noon) {
		t.Error("expected holiday lookup to ignore time of day")
	}
}

func TestIsBusinessDayDefinition(t *testing.T) {
	cal := testCalendar()

	// IsBusinessDay must equal !IsWeekend && !IsHoliday for every date.
	for day := date(2025, time.April, 20); day.Before(date(2025, time.May, 12)); day = day.AddDate(0, 0, 1) {
		want := !cal.IsWeekend(day) && !cal.IsHoliday(day)
		if got := cal.IsBusinessDay(day); got != want {
			t.Errorf("IsBusinessDay(%s) = %t, want %t", day.Format("2006-01-02"), got, want)
		}
	}
}

func TestBusinessDaysBetween(t *testing.T) {
	cal := testCalendar()

	// Mon 2025-04-28 .. Sun 2025-05-04: the holiday on Thursday May 1 and
	// the weekend drop out.
	days := cal.BusinessDaysBetween(date(2025, time.April, 28), date(2025, time.May, 4))
	want := []time.Time{
		date(2025, time.April, 28),
		date(2025, time.April, 29),
		date(2025, time.April, 30),
		date(2025, time.May, 2),
	}
	if len(days) != len(want) {
		t.Fatalf("got %d business days, want %d", len(days), len(want))
	}
	for i := range want {
		if !days[i].Equal(want[i]) {
			t.Errorf("day %d = %s, want %s", i, days[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestBusinessDaysBetweenReversedRange(t *testing.T) {
	cal := testCalendar()

	days := cal.BusinessDaysBetween(date(2025, time.May, 9), date(2025, time.May, 5))
	if len(days) != 0 {
		t.Errorf("expected empty result for reversed range, got %d days", len(days))
	}
	if got := cal.CountBusinessDays(date(2025, time.May, 9), date(2025, time.May, 5)); got != 0 {
		t.Errorf("CountBusinessDays on reversed range = %d, want 0", got)
	}
}

func TestCountBusinessDaysFullWeek(t *testing.T) {
	cal := testCalendar()

	// Mon 2025-05-05 .. Fri 2025-05-09 holds no weekend or holiday.
	if got := cal.CountBusinessDays(date(2025, time.May, 5), date(2025, time.May, 9)); got != 5 {
		t.Errorf("CountBusinessDays = %d, want 5", got)
	}
	// Single-day ranges count themselves when eligible.
	if got := cal.CountBusinessDays(date(2025, time.May, 5), date(2025, time.May, 5)); got != 1 {
		t.Errorf("CountBusinessDays single day = %d, want 1", got)
	}
	if got := cal.CountBusinessDays(date(2025, time.May, 3), date(2025, time.May, 3)); got != 0 {
		t.Errorf("CountBusinessDays on a Saturday = %d, want 0", got)
	}
}
