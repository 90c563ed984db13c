package services

import (
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
)

const alertWindow = 48 * time.Hour

// Metrics derives the workload figures for one backlog item. Nothing is
// stored: the figures are recomputed from the item (whose ActualHours the
// time-entry service keeps fresh) on every call.
func (s *TaskService) Metrics(task *models.BacklogItem) models.TaskMetrics {
	actual := task.ActualHours

	var remaining float64
	if task.EstimatedHours != nil {
		remaining = *task.EstimatedHours - actual
		if remaining < 0 {
			remaining = 0
		}
	}

	var advancement float64
	switch {
	case task.EstimatedHours != nil && *task.EstimatedHours > 0:
		advancement = actual / *task.EstimatedHours * 100
		if advancement > 100 {
			advancement = 100
		}
	case task.Status == models.StatusDone:
		advancement = 100
	}

	return models.TaskMetrics{
		ActualHours:        actual,
		RemainingHours:     remaining,
		AdvancementPercent: advancement,
		Alert:              s.alertLevel(task),
	}
}

// alertLevel applies the three-tier deadline thresholding. The deadline is
// the expected-end date when set, otherwise an estimate of
// complexity x 1.25 days from creation. With neither, a task untouched
// for more than 7 days raises a warning.
func (s *TaskService) alertLevel(task *models.BacklogItem) models.AlertLevel {
	now := s.now()

	var deadline time.Time
	switch {
	case task.ExpectedEnd != nil:
		deadline = *task.ExpectedEnd
	case task.Complexity != nil:
		days := float64(*task.Complexity) * 1.25
		deadline = task.CreatedAt.Add(time.Duration(days * 24 * float64(time.Hour)))
	default:
		if now.Sub(task.UpdatedAt) > 7*24*time.Hour {
			return models.AlertWarning
		}
		return models.AlertOK
	}

	if now.After(deadline) {
		return models.AlertUrgent
	}
	if deadline.Sub(now) <= alertWindow {
		return models.AlertWarning
	}
	return models.AlertOK
}
