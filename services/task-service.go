package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/logging"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier delivers user notifications. Delivery is an external concern;
// failures are logged and never fail the command that triggered them.
type Notifier interface {
	NotifyUser(ctx context.Context, userID primitive.ObjectID, message string) error
}

// TaskService owns the backlog-item state machine and the derived
// workload metrics. It is the sole mutator of status and the archived
// flag.
type TaskService struct {
	tasks       repositories.TaskRepository
	users       repositories.UserRepository
	permissions PermissionProvider
	notifier    Notifier
	wipLimits   map[models.TaskStatus]int
	now         func() time.Time
}

func NewTaskService(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	permissions PermissionProvider,
	notifier Notifier,
	wipLimits map[models.TaskStatus]int,
) *TaskService {
	return &TaskService{
		tasks:       tasks,
		users:       users,
		permissions: permissions,
		notifier:    notifier,
		wipLimits:   wipLimits,
		now:         time.Now,
	}
}

type CreateTaskInput struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	RequestType    models.RequestType  `json:"requestType"`
	Priority       models.Priority     `json:"priority"`
	AssigneeID     *primitive.ObjectID `json:"assigneeId,omitempty"`
	ProjectID      *primitive.ObjectID `json:"projectId,omitempty"`
	EstimatedHours *float64            `json:"estimatedHours,omitempty"`
	Complexity     *int                `json:"complexity,omitempty"`
	PlannedStart   *time.Time          `json:"plannedStart,omitempty"`
	ExpectedEnd    *time.Time          `json:"expectedEnd,omitempty"`
}

// CreateTask creates a backlog item with the default "to do" status.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.BacklogItem, error) {
	if input.Title == "" {
		return nil, validationf("title is required")
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, validationf("estimated hours must be non-negative, got %g", *input.EstimatedHours)
	}
	if input.RequestType == "" {
		input.RequestType = models.RequestDevelopment
	}
	if input.Priority == 0 {
		input.Priority = models.PriorityNormal
	}
	if input.AssigneeID != nil {
		if _, err := s.users.GetUserByID(ctx, *input.AssigneeID); err != nil {
			return nil, storeErr(err, "assignee %s", input.AssigneeID.Hex())
		}
	}

	now := s.now()
	task := &models.BacklogItem{
		Title:          input.Title,
		Description:    input.Description,
		RequestType:    input.RequestType,
		Priority:       input.Priority,
		Status:         models.StatusToDo,
		AssigneeID:     input.AssigneeID,
		ProjectID:      input.ProjectID,
		EstimatedHours: input.EstimatedHours,
		Complexity:     input.Complexity,
		PlannedStart:   input.PlannedStart,
		ExpectedEnd:    input.ExpectedEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err, "task %s", taskID.Hex())
	}
	return task, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]*models.BacklogItem, error) {
	return s.tasks.GetTasks(ctx)
}

func (s *TaskService) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]*models.BacklogItem, error) {
	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.BacklogItem
	for _, task := range tasks {
		if task.ProjectID != nil && *task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	return out, nil
}

// MoveForward advances the task to the next status in the fixed order.
// A task already in "done" stays in "done".
func (s *TaskService) MoveForward(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error) {
	task, err := s.activeTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	rank := task.Status.Rank()
	if rank == len(models.StatusOrder)-1 {
		return task, nil
	}
	return s.transition(ctx, task, models.StatusOrder[rank+1])
}

// MoveBackward retreats the task to the previous status. A task already
// in "waiting" stays in "waiting".
func (s *TaskService) MoveBackward(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error) {
	task, err := s.activeTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	rank := task.Status.Rank()
	if rank == 0 {
		return task, nil
	}
	return s.transition(ctx, task, models.StatusOrder[rank-1])
}

// SetWaiting forces the task out of the active flow regardless of its
// current status. Administrator only.
func (s *TaskService) SetWaiting(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.BacklogItem, error) {
	if err := s.requireAdministrator(ctx, actorID); err != nil {
		return nil, err
	}
	task, err := s.activeTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, task, models.StatusWaiting)
}

// Reactivate pulls a waiting task back into the flow. From "waiting" the
// caller chooses "to prioritize" or "to do"; from "to prioritize" the
// target is always "to do". Administrator only.
func (s *TaskService) Reactivate(ctx context.Context, taskID, actorID primitive.ObjectID, target models.TaskStatus) (*models.BacklogItem, error) {
	if err := s.requireAdministrator(ctx, actorID); err != nil {
		return nil, err
	}
	task, err := s.activeTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case models.StatusWaiting:
		if target != models.StatusToPrioritize && target != models.StatusToDo {
			return nil, validationf("cannot reactivate to %q, choose %q or %q", target, models.StatusToPrioritize, models.StatusToDo)
		}
	case models.StatusToPrioritize:
		target = models.StatusToDo
	default:
		return nil, validationf("task in status %q cannot be reactivated", task.Status)
	}
	return s.transition(ctx, task, target)
}

// Archive soft-deletes the task: the record stays, the status is
// untouched, and transition commands are rejected until Unarchive.
// Administrator only.
func (s *TaskService) Archive(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.BacklogItem, error) {
	return s.setArchived(ctx, taskID, actorID, true)
}

func (s *TaskService) Unarchive(ctx context.Context, taskID, actorID primitive.ObjectID) (*models.BacklogItem, error) {
	return s.setArchived(ctx, taskID, actorID, false)
}

func (s *TaskService) setArchived(ctx context.Context, taskID, actorID primitive.ObjectID, archived bool) (*models.BacklogItem, error) {
	if err := s.requireAdministrator(ctx, actorID); err != nil {
		return nil, err
	}
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Archived = archived
	task.UpdatedAt = s.now()
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// AssignDeveloper sets the task's assignee and notifies the developer.
func (s *TaskService) AssignDeveloper(ctx context.Context, taskID, developerID primitive.ObjectID) (*models.BacklogItem, error) {
	if _, err := s.users.GetUserByID(ctx, developerID); err != nil {
		return nil, storeErr(err, "developer %s", developerID.Hex())
	}
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = &developerID
	task.UpdatedAt = s.now()
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	s.notify(ctx, &developerID, fmt.Sprintf("You have been assigned to task %q", task.Title))
	return task, nil
}

func (s *TaskService) UnassignDeveloper(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = nil
	task.UpdatedAt = s.now()
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateEstimate re-estimates the task's effort in hours.
func (s *TaskService) UpdateEstimate(ctx context.Context, taskID primitive.ObjectID, estimatedHours *float64) (*models.BacklogItem, error) {
	if estimatedHours != nil && *estimatedHours < 0 {
		return nil, validationf("estimated hours must be non-negative, got %g", *estimatedHours)
	}
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.EstimatedHours = estimatedHours
	task.UpdatedAt = s.now()
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Board returns the non-archived items grouped by status. Archived items
// are excluded from active boards regardless of their status.
func (s *TaskService) Board(ctx context.Context) (map[models.TaskStatus][]*models.BacklogItem, error) {
	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	board := make(map[models.TaskStatus][]*models.BacklogItem)
	for _, task := range tasks {
		if task.Archived {
			continue
		}
		board[task.Status] = append(board[task.Status], task)
	}
	return board, nil
}

// WIPAlerts reports every status whose non-archived count exceeds its
// configured soft cap. An alert is a signal, never a block.
func (s *TaskService) WIPAlerts(ctx context.Context) ([]models.WIPAlert, error) {
	board, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}
	var alerts []models.WIPAlert
	for _, status := range models.StatusOrder {
		limit, ok := s.wipLimits[status]
		if !ok {
			continue
		}
		if count := len(board[status]); count > limit {
			alerts = append(alerts, models.WIPAlert{Status: status, Count: count, Limit: limit})
		}
	}
	return alerts, nil
}

func (s *TaskService) activeTask(ctx context.Context, taskID primitive.ObjectID) (*models.BacklogItem, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, &DomainError{Kind: ErrTaskArchived, Msg: fmt.Sprintf("task %s", taskID.Hex())}
	}
	if !task.Status.IsValid() {
		return nil, validationf("task %s has unknown status %q", taskID.Hex(), task.Status)
	}
	return task, nil
}

func (s *TaskService) transition(ctx context.Context, task *models.BacklogItem, target models.TaskStatus) (*models.BacklogItem, error) {
	task.Status = target
	task.UpdatedAt = s.now()
	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	s.notify(ctx, task.AssigneeID, fmt.Sprintf("Task %q moved to %q", task.Title, target))
	return task, nil
}

func (s *TaskService) requireAdministrator(ctx context.Context, actorID primitive.ObjectID) error {
	admin, err := s.permissions.IsAdministrator(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return permissionf("user %s is not an administrator", actorID.Hex())
	}
	return nil
}

func (s *TaskService) notify(ctx context.Context, userID *primitive.ObjectID, message string) {
	if s.notifier == nil || userID == nil {
		return
	}
	if err := s.notifier.NotifyUser(ctx, *userID, message); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_FAILED, Description: Failed to notify user %s: %v", userID.Hex(), err)
	}
}
