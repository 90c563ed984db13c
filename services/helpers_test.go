package services

import (
	"context"
	"testing"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv wires the services over the in-memory store with a small fixed
// holiday table and three users: one manager and two developers.
type testEnv struct {
	store       *repositories.MemoryStore
	calendar    *CalendarService
	timeEntries *TimeEntryService
	tasks       *TaskService
	reports     *ReportService

	manager models.User
	devA    models.User
	devB    models.User
	project models.Project
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositories.NewMemoryStore()

	manager := models.User{ID: primitive.NewObjectID(), Username: "alice", Role: models.RoleManager}
	devA := models.User{ID: primitive.NewObjectID(), Username: "bob", Role: models.RoleMember}
	devB := models.User{ID: primitive.NewObjectID(), Username: "carol", Role: models.RoleMember}
	store.PutUser(manager)
	store.PutUser(devA)
	store.PutUser(devB)

	project := models.Project{ID: primitive.NewObjectID(), Name: "backlog", ManagerID: manager.ID}
	store.PutProject(project)

	store.PutHoliday(models.Holiday{Date: date(2025, time.May, 1), Name: "Labour Day"})
	store.PutHoliday(models.Holiday{Date: date(2025, time.December, 25), Name: "Christmas Day"})

	calendar := NewCalendarService(mustHolidays(t, store))
	permissions := NewRolePermissions(store)
	tasks := NewTaskService(store, store, permissions, nil, map[models.TaskStatus]int{
		models.StatusInProgress: 2,
		models.StatusInTest:     1,
	})
	timeEntries := NewTimeEntryService(store, store, store, store, calendar, permissions)
	reports := NewReportService(timeEntries, tasks, store, store)

	return &testEnv{
		store:       store,
		calendar:    calendar,
		timeEntries: timeEntries,
		tasks:       tasks,
		reports:     reports,
		manager:     manager,
		devA:        devA,
		devB:        devB,
		project:     project,
	}
}

func mustHolidays(t *testing.T, store *repositories.MemoryStore) []models.Holiday {
	t.Helper()
	holidays, err := store.GetHolidays(context.Background(), 2025)
	if err != nil {
		t.Fatalf("failed to load holidays: %v", err)
	}
	return holidays
}

// newTask creates a backlog item through the service and returns it.
func (env *testEnv) newTask(t *testing.T, input CreateTaskInput) *models.BacklogItem {
	t.Helper()
	if input.Title == "" {
		input.Title = "test task"
	}
	task, err := env.tasks.CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

// record creates one confirmed time entry and fails the test on warnings.
func (env *testEnv) record(t *testing.T, taskID, developerID primitive.ObjectID, day time.Time, hours float64) *models.TimeEntry {
	t.Helper()
	entry, warnings, err := env.timeEntries.RecordEntry(context.Background(), EntryInput{
		TaskID:      taskID,
		DeveloperID: developerID,
		Date:        day,
		Hours:       hours,
	}, true)
	if err != nil {
		t.Fatalf("failed to record entry: %v", err)
	}
	if entry == nil {
		t.Fatalf("expected entry despite warnings %v", warnings)
	}
	return entry
}
