package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by every repository when the requested document
// does not exist. Services translate it into their own error taxonomy.
var ErrNotFound = errors.New("document not found")

// TimeEntryFilter narrows a time-entry query. Nil fields are ignored.
// From/To are inclusive calendar dates.
type TimeEntryFilter struct {
	TaskID      *primitive.ObjectID
	DeveloperID *primitive.ObjectID
	From        *time.Time
	To          *time.Time
}

type TaskRepository interface {
	GetTasks(ctx context.Context) ([]*models.BacklogItem, error)
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.BacklogItem, error)
	SaveTask(ctx context.Context, task *models.BacklogItem) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
}

type TimeEntryRepository interface {
	GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]*models.TimeEntry, error)
	GetTimeEntryByID(ctx context.Context, id primitive.ObjectID) (*models.TimeEntry, error)
	SaveTimeEntry(ctx context.Context, entry *models.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id primitive.ObjectID) error
}

type UserRepository interface {
	GetUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type ProjectRepository interface {
	GetProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
}

type HolidayRepository interface {
	GetHolidays(ctx context.Context, year int) ([]models.Holiday, error)
}
