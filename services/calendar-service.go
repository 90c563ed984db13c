package services

import (
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
)

const dateKey = "2006-01-02"

// CalendarService answers business-day questions over a fixed holiday
// table. The table is loaded once at startup and injected; the service
// holds no other state and has no side effects.
type CalendarService struct {
	holidayNames map[string]string
}

func NewCalendarService(holidays []models.Holiday) *CalendarService {
	names := make(map[string]string, len(holidays))
	for _, holiday := range holidays {
		names[models.DateOnly(holiday.Date).Format(dateKey)] = holiday.Name
	}
	return &CalendarService{holidayNames: names}
}

func (s *CalendarService) IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

func (s *CalendarService) IsHoliday(date time.Time) bool {
	_, ok := s.holidayNames[models.DateOnly(date).Format(dateKey)]
	return ok
}

// HolidayName returns the display name of the holiday falling on the date,
// if any.
func (s *CalendarService) HolidayName(date time.Time) (string, bool) {
	name, ok := s.holidayNames[models.DateOnly(date).Format(dateKey)]
	return name, ok
}

func (s *CalendarService) IsBusinessDay(date time.Time) bool {
	return !s.IsWeekend(date) && !s.IsHoliday(date)
}

// BusinessDaysBetween returns every business day in [start, end] inclusive,
// ascending. The result is empty when end is before start.
func (s *CalendarService) BusinessDaysBetween(start, end time.Time) []time.Time {
	start = models.DateOnly(start)
	end = models.DateOnly(end)

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if s.IsBusinessDay(day) {
			days = append(days, day)
		}
	}
	return days
}

func (s *CalendarService) CountBusinessDays(start, end time.Time) int {
	return len(s.BusinessDaysBetween(start, end))
}
