package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyCapacityHours is the ceiling on a developer's summed hours for one
// calendar date (3 nominal 8-hour days). Exceeding it is a soft condition:
// the caller must confirm, the engine never rejects outright.
const DailyCapacityHours = 24.0

type WarningKind string

const (
	WarningCapacity       WarningKind = "capacity_exceeded"
	WarningNonBusinessDay WarningKind = "non_business_day"
)

// EntryWarning is a recoverable condition detected while recording time.
// It is a typed result, not an error: callers either re-invoke with the
// override flag or drop the day.
type EntryWarning struct {
	Kind        WarningKind `json:"kind"`
	Date        time.Time   `json:"date"`
	DailyTotal  float64     `json:"dailyTotal,omitempty"`
	HolidayName string      `json:"holidayName,omitempty"`
}

type EntryInput struct {
	TaskID      primitive.ObjectID `json:"taskId"`
	DeveloperID primitive.ObjectID `json:"developerId"`
	Date        time.Time          `json:"date"`
	Hours       float64            `json:"hours"`
	Comment     string             `json:"comment"`
}

// PeriodDecision is the caller's per-day choice when a bulk entry hits a
// capacity conflict.
type PeriodDecision int

const (
	DecisionAbort PeriodDecision = iota
	DecisionSkip
)

// PeriodDecider is consulted once per conflicting day. A nil decider
// aborts on the first conflict.
type PeriodDecider func(warning EntryWarning) PeriodDecision

// PeriodResult summarizes a bulk entry: partial success is a valid,
// reportable outcome, not a failure.
type PeriodResult struct {
	Created []time.Time `json:"created"`
	Skipped []time.Time `json:"skipped"`
	Aborted bool        `json:"aborted"`
}

// TimeEntryService records, deletes and aggregates CRA rows. It is the
// sole writer of BacklogItem.ActualHours.
type TimeEntryService struct {
	entries     repositories.TimeEntryRepository
	tasks       repositories.TaskRepository
	users       repositories.UserRepository
	projects    repositories.ProjectRepository
	calendar    *CalendarService
	permissions PermissionProvider
}

func NewTimeEntryService(
	entries repositories.TimeEntryRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	calendar *CalendarService,
	permissions PermissionProvider,
) *TimeEntryService {
	return &TimeEntryService{
		entries:     entries,
		tasks:       tasks,
		users:       users,
		projects:    projects,
		calendar:    calendar,
		permissions: permissions,
	}
}

// RecordEntry validates and persists one time entry. Capacity and
// non-business-day conditions come back as warnings with a nil entry;
// the caller confirms by re-invoking with override set.
func (s *TimeEntryService) RecordEntry(ctx context.Context, input EntryInput, override bool) (*models.TimeEntry, []EntryWarning, error) {
	if input.Hours <= 0 {
		return nil, nil, validationf("hours worked must be positive, got %g", input.Hours)
	}

	if _, err := s.tasks.GetTaskByID(ctx, input.TaskID); err != nil {
		return nil, nil, storeErr(err, "task %s", input.TaskID.Hex())
	}
	if _, err := s.users.GetUserByID(ctx, input.DeveloperID); err != nil {
		return nil, nil, storeErr(err, "developer %s", input.DeveloperID.Hex())
	}

	date := models.DateOnly(input.Date)
	warnings, err := s.checkDay(ctx, input.DeveloperID, date, input.Hours)
	if err != nil {
		return nil, nil, err
	}
	if len(warnings) > 0 && !override {
		return nil, warnings, nil
	}

	entry := &models.TimeEntry{
		TaskID:      input.TaskID,
		DeveloperID: input.DeveloperID,
		Date:        date,
		Hours:       input.Hours,
		Comment:     input.Comment,
		CreatedAt:   time.Now(),
	}
	if err := s.entries.SaveTimeEntry(ctx, entry); err != nil {
		return nil, nil, err
	}
	if err := s.refreshActualHours(ctx, input.TaskID); err != nil {
		return nil, nil, err
	}
	return entry, warnings, nil
}

// RecordPeriod creates one entry per business day in [start, end]. Days
// that would exceed the daily capacity are surfaced to the decider one at
// a time: skip keeps going, abort drops the remaining days. Recorded days
// stay recorded either way.
func (s *TimeEntryService) RecordPeriod(ctx context.Context, input EntryInput, end time.Time, decide PeriodDecider) (*PeriodResult, error) {
	if input.Hours <= 0 {
		return nil, validationf("hours per day must be positive, got %g", input.Hours)
	}
	start := models.DateOnly(input.Date)
	end = models.DateOnly(end)
	if end.Before(start) {
		return nil, validationf("end date %s is before start date %s", end.Format(dateKey), start.Format(dateKey))
	}

	if _, err := s.tasks.GetTaskByID(ctx, input.TaskID); err != nil {
		return nil, storeErr(err, "task %s", input.TaskID.Hex())
	}
	if _, err := s.users.GetUserByID(ctx, input.DeveloperID); err != nil {
		return nil, storeErr(err, "developer %s", input.DeveloperID.Hex())
	}

	days := s.calendar.BusinessDaysBetween(start, end)
	if len(days) == 0 {
		return nil, &DomainError{Kind: ErrEmptyPeriod, Msg: fmt.Sprintf("%s to %s", start.Format(dateKey), end.Format(dateKey))}
	}

	result := &PeriodResult{}
	for _, day := range days {
		total, err := s.DailyCharge(ctx, input.DeveloperID, day)
		if err != nil {
			return nil, err
		}
		if total+input.Hours > DailyCapacityHours {
			warning := EntryWarning{Kind: WarningCapacity, Date: day, DailyTotal: total + input.Hours}
			decision := DecisionAbort
			if decide != nil {
				decision = decide(warning)
			}
			if decision == DecisionAbort {
				result.Aborted = true
				break
			}
			result.Skipped = append(result.Skipped, day)
			continue
		}

		entry := &models.TimeEntry{
			TaskID:      input.TaskID,
			DeveloperID: input.DeveloperID,
			Date:        day,
			Hours:       input.Hours,
			Comment:     input.Comment,
			CreatedAt:   time.Now(),
		}
		if err := s.entries.SaveTimeEntry(ctx, entry); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, day)
	}

	if len(result.Created) > 0 {
		if err := s.refreshActualHours(ctx, input.TaskID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DeleteEntry removes an entry when the acting user owns it or is an
// administrator.
func (s *TimeEntryService) DeleteEntry(ctx context.Context, entryID, actingUserID primitive.ObjectID) error {
	entry, err := s.entries.GetTimeEntryByID(ctx, entryID)
	if err != nil {
		return storeErr(err, "time entry %s", entryID.Hex())
	}

	allowed, err := s.permissions.CanDeleteTimeEntry(ctx, actingUserID, entry)
	if err != nil {
		return err
	}
	if !allowed {
		return permissionf("user %s may not delete entry %s (owner or administrator required)", actingUserID.Hex(), entryID.Hex())
	}

	if err := s.entries.DeleteTimeEntry(ctx, entryID); err != nil {
		return storeErr(err, "time entry %s", entryID.Hex())
	}
	return s.refreshActualHours(ctx, entry.TaskID)
}

// DailyCharge sums the developer's hours on one date across all tasks.
func (s *TimeEntryService) DailyCharge(ctx context.Context, developerID primitive.ObjectID, date time.Time) (float64, error) {
	day := models.DateOnly(date)
	entries, err := s.entries.GetTimeEntries(ctx, repositories.TimeEntryFilter{
		DeveloperID: &developerID,
		From:        &day,
		To:          &day,
	})
	if err != nil {
		return 0, err
	}
	var total float64
	for _, entry := range entries {
		total += entry.Hours
	}
	return total, nil
}

func (s *TimeEntryService) EntriesForTask(ctx context.Context, taskID primitive.ObjectID) ([]*models.TimeEntry, error) {
	return s.entries.GetTimeEntries(ctx, repositories.TimeEntryFilter{TaskID: &taskID})
}

// EntriesForDeveloper returns the developer's entries, optionally bounded
// by an inclusive date range.
func (s *TimeEntryService) EntriesForDeveloper(ctx context.Context, developerID primitive.ObjectID, from, to *time.Time) ([]*models.TimeEntry, error) {
	return s.entries.GetTimeEntries(ctx, repositories.TimeEntryFilter{
		DeveloperID: &developerID,
		From:        from,
		To:          to,
	})
}

func (s *TimeEntryService) EntriesForPeriod(ctx context.Context, from, to time.Time) ([]*models.TimeEntry, error) {
	return s.entries.GetTimeEntries(ctx, repositories.TimeEntryFilter{From: &from, To: &to})
}

// ExportPeriod serializes entries as one delimited row each:
// date;developer;project;task;hours;comment. Values are written as-is;
// an embedded delimiter in a comment is not escaped.
func (s *TimeEntryService) ExportPeriod(ctx context.Context, entries []*models.TimeEntry) (string, error) {
	const sep = ";"

	var b strings.Builder
	b.WriteString("date" + sep + "developer" + sep + "project" + sep + "task" + sep + "hours" + sep + "comment\n")

	userNames := make(map[primitive.ObjectID]string)
	taskTitles := make(map[primitive.ObjectID]string)
	projectNames := make(map[primitive.ObjectID]string)

	for _, entry := range entries {
		developer, ok := userNames[entry.DeveloperID]
		if !ok {
			user, err := s.users.GetUserByID(ctx, entry.DeveloperID)
			if err != nil {
				return "", storeErr(err, "developer %s", entry.DeveloperID.Hex())
			}
			developer = user.Username
			userNames[entry.DeveloperID] = developer
		}

		title, ok := taskTitles[entry.TaskID]
		projectName := projectNames[entry.TaskID]
		if !ok {
			task, err := s.tasks.GetTaskByID(ctx, entry.TaskID)
			if err != nil {
				return "", storeErr(err, "task %s", entry.TaskID.Hex())
			}
			title = task.Title
			taskTitles[entry.TaskID] = title
			if task.ProjectID != nil {
				project, err := s.projects.GetProjectByID(ctx, *task.ProjectID)
				if err != nil {
					return "", storeErr(err, "project %s", task.ProjectID.Hex())
				}
				projectName = project.Name
			}
			projectNames[entry.TaskID] = projectName
		}

		b.WriteString(entry.Date.Format(dateKey))
		b.WriteString(sep + developer)
		b.WriteString(sep + projectName)
		b.WriteString(sep + title)
		b.WriteString(sep + fmt.Sprintf("%g", entry.Hours))
		b.WriteString(sep + entry.Comment + "\n")
	}
	return b.String(), nil
}

// refreshActualHours recomputes the task's derived actual effort after an
// entry is created or deleted. It deliberately leaves UpdatedAt alone:
// logging time is not a workflow mutation.
func (s *TimeEntryService) refreshActualHours(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return storeErr(err, "task %s", taskID.Hex())
	}
	entries, err := s.EntriesForTask(ctx, taskID)
	if err != nil {
		return err
	}

	var total float64
	for _, entry := range entries {
		total += entry.Hours
	}
	task.ActualHours = total
	return s.tasks.SaveTask(ctx, task)
}

// checkDay collects the soft conditions for recording hours on a date.
func (s *TimeEntryService) checkDay(ctx context.Context, developerID primitive.ObjectID, date time.Time, hours float64) ([]EntryWarning, error) {
	var warnings []EntryWarning

	total, err := s.DailyCharge(ctx, developerID, date)
	if err != nil {
		return nil, err
	}
	if total+hours > DailyCapacityHours {
		warnings = append(warnings, EntryWarning{Kind: WarningCapacity, Date: date, DailyTotal: total + hours})
	}
	if !s.calendar.IsBusinessDay(date) {
		warning := EntryWarning{Kind: WarningNonBusinessDay, Date: date}
		warning.HolidayName, _ = s.calendar.HolidayName(date)
		warnings = append(warnings, warning)
	}
	return warnings, nil
}
