package services

import (
	"context"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportService rolls up the two core engines' query contracts into
// per-developer and per-project figures for dashboards. Day figures are
// hours divided by 8; the division happens here and nowhere deeper.
type ReportService struct {
	timeEntries *TimeEntryService
	tasks       *TaskService
	users       repositories.UserRepository
	projects    repositories.ProjectRepository
}

func NewReportService(
	timeEntries *TimeEntryService,
	tasks *TaskService,
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
) *ReportService {
	return &ReportService{
		timeEntries: timeEntries,
		tasks:       tasks,
		users:       users,
		projects:    projects,
	}
}

type TaskHours struct {
	TaskID primitive.ObjectID `json:"taskId"`
	Title  string             `json:"title"`
	Hours  float64            `json:"hours"`
}

type DayHours struct {
	Date  time.Time `json:"date"`
	Hours float64   `json:"hours"`
}

type DeveloperReport struct {
	DeveloperID primitive.ObjectID `json:"developerId"`
	Username    string             `json:"username"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	TotalHours  float64            `json:"totalHours"`
	TotalDays   float64            `json:"totalDays"`
	ByTask      []TaskHours        `json:"byTask"`
	ByDay       []DayHours         `json:"byDay"`
}

// DeveloperReport aggregates one developer's entries over an inclusive
// period.
func (s *ReportService) DeveloperReport(ctx context.Context, developerID primitive.ObjectID, from, to time.Time) (*DeveloperReport, error) {
	user, err := s.users.GetUserByID(ctx, developerID)
	if err != nil {
		return nil, storeErr(err, "developer %s", developerID.Hex())
	}

	entries, err := s.timeEntries.EntriesForDeveloper(ctx, developerID, &from, &to)
	if err != nil {
		return nil, err
	}

	report := &DeveloperReport{
		DeveloperID: developerID,
		Username:    user.Username,
		From:        models.DateOnly(from),
		To:          models.DateOnly(to),
	}

	taskHours := make(map[primitive.ObjectID]float64)
	var taskOrder []primitive.ObjectID
	dayHours := make(map[time.Time]float64)
	var dayOrder []time.Time

	for _, entry := range entries {
		report.TotalHours += entry.Hours
		if _, seen := taskHours[entry.TaskID]; !seen {
			taskOrder = append(taskOrder, entry.TaskID)
		}
		taskHours[entry.TaskID] += entry.Hours
		if _, seen := dayHours[entry.Date]; !seen {
			dayOrder = append(dayOrder, entry.Date)
		}
		dayHours[entry.Date] += entry.Hours
	}
	report.TotalDays = report.TotalHours / models.HoursPerDay

	for _, taskID := range taskOrder {
		task, err := s.tasks.GetTaskByID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		report.ByTask = append(report.ByTask, TaskHours{TaskID: taskID, Title: task.Title, Hours: taskHours[taskID]})
	}
	for _, day := range dayOrder {
		report.ByDay = append(report.ByDay, DayHours{Date: day, Hours: dayHours[day]})
	}
	return report, nil
}

type DeveloperHours struct {
	DeveloperID primitive.ObjectID `json:"developerId"`
	Username    string             `json:"username"`
	Hours       float64            `json:"hours"`
}

type TaskProgress struct {
	TaskID  primitive.ObjectID `json:"taskId"`
	Title   string             `json:"title"`
	Status  models.TaskStatus  `json:"status"`
	Metrics models.TaskMetrics `json:"metrics"`
}

type ProjectReport struct {
	ProjectID      primitive.ObjectID `json:"projectId"`
	Name           string             `json:"name"`
	TaskCount      int                `json:"taskCount"`
	DoneCount      int                `json:"doneCount"`
	EstimatedHours float64            `json:"estimatedHours"`
	ActualHours    float64            `json:"actualHours"`
	ActualDays     float64            `json:"actualDays"`
	ByDeveloper    []DeveloperHours   `json:"byDeveloper"`
	Tasks          []TaskProgress     `json:"tasks"`
}

// ProjectReport aggregates the non-archived tasks of one project with
// their derived metrics and the hours each developer logged on them.
func (s *ReportService) ProjectReport(ctx context.Context, projectID primitive.ObjectID) (*ProjectReport, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "project %s", projectID.Hex())
	}
	tasks, err := s.tasks.GetTasksByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	report := &ProjectReport{ProjectID: projectID, Name: project.Name}
	devHours := make(map[primitive.ObjectID]float64)
	var devOrder []primitive.ObjectID

	for _, task := range tasks {
		if task.Archived {
			continue
		}
		report.TaskCount++
		if task.Status == models.StatusDone {
			report.DoneCount++
		}
		if task.EstimatedHours != nil {
			report.EstimatedHours += *task.EstimatedHours
		}
		report.ActualHours += task.ActualHours
		report.Tasks = append(report.Tasks, TaskProgress{
			TaskID:  task.ID,
			Title:   task.Title,
			Status:  task.Status,
			Metrics: s.tasks.Metrics(task),
		})

		entries, err := s.timeEntries.EntriesForTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if _, seen := devHours[entry.DeveloperID]; !seen {
				devOrder = append(devOrder, entry.DeveloperID)
			}
			devHours[entry.DeveloperID] += entry.Hours
		}
	}
	report.ActualDays = report.ActualHours / models.HoursPerDay

	for _, developerID := range devOrder {
		user, err := s.users.GetUserByID(ctx, developerID)
		if err != nil {
			return nil, storeErr(err, "developer %s", developerID.Hex())
		}
		report.ByDeveloper = append(report.ByDeveloper, DeveloperHours{
			DeveloperID: developerID,
			Username:    user.Username,
			Hours:       devHours[developerID],
		})
	}
	return report, nil
}

// ExportPeriodCSV serializes every entry in the period through the
// engine's fixed-column format.
func (s *ReportService) ExportPeriodCSV(ctx context.Context, from, to time.Time) (string, error) {
	entries, err := s.timeEntries.EntriesForPeriod(ctx, from, to)
	if err != nil {
		return "", err
	}
	return s.timeEntries.ExportPeriod(ctx, entries)
}
