package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements every repository interface over plain maps. It
// backs the service tests and stands in for MongoDB wherever a real
// database is not wanted.
type MemoryStore struct {
	mu       sync.Mutex
	tasks    map[primitive.ObjectID]models.BacklogItem
	entries  map[primitive.ObjectID]models.TimeEntry
	seq      map[primitive.ObjectID]int
	nextSeq  int
	users    map[primitive.ObjectID]models.User
	projects map[primitive.ObjectID]models.Project
	holidays []models.Holiday
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[primitive.ObjectID]models.BacklogItem),
		entries:  make(map[primitive.ObjectID]models.TimeEntry),
		seq:      make(map[primitive.ObjectID]int),
		users:    make(map[primitive.ObjectID]models.User),
		projects: make(map[primitive.ObjectID]models.Project),
	}
}

func (s *MemoryStore) GetTasks(ctx context.Context) ([]*models.BacklogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*models.BacklogItem, 0, len(s.tasks))
	for id := range s.tasks {
		task := s.tasks[id]
		tasks = append(tasks, &task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *MemoryStore) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.BacklogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (s *MemoryStore) SaveTask(ctx context.Context, task *models.BacklogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]*models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*models.TimeEntry
	for id := range s.entries {
		entry := s.entries[id]
		if filter.TaskID != nil && entry.TaskID != *filter.TaskID {
			continue
		}
		if filter.DeveloperID != nil && entry.DeveloperID != *filter.DeveloperID {
			continue
		}
		if filter.From != nil && entry.Date.Before(models.DateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && entry.Date.After(models.DateOnly(*filter.To)) {
			continue
		}
		entries = append(entries, &entry)
	}
	// Date ascending, then creation order.
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return s.seq[entries[i].ID] < s.seq[entries[j].ID]
	})
	return entries, nil
}

func (s *MemoryStore) GetTimeEntryByID(ctx context.Context, id primitive.ObjectID) (*models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *MemoryStore) SaveTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	s.entries[entry.ID] = *entry
	s.seq[entry.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *MemoryStore) DeleteTimeEntry(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) GetUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0, len(s.users))
	for id := range s.users {
		user := s.users[id]
		users = append(users, &user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) PutUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *MemoryStore) GetProjects(ctx context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*models.Project, 0, len(s.projects))
	for id := range s.projects {
		project := s.projects[id]
		projects = append(projects, &project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

func (s *MemoryStore) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &project, nil
}

func (s *MemoryStore) PutProject(project models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
}

func (s *MemoryStore) GetHolidays(ctx context.Context, year int) ([]models.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var holidays []models.Holiday
	for _, holiday := range s.holidays {
		if holiday.Date.Year() == year {
			holidays = append(holidays, holiday)
		}
	}
	return holidays, nil
}

func (s *MemoryStore) PutHoliday(holiday models.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, holiday)
}
