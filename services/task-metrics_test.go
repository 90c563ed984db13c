package services

import (
	"context"
	"testing"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
)

func TestAdvancementClampsToRange(t *testing.T) {
	env := newTestEnv(t)

	estimate := func(h float64) *float64 { return &h }
	tests := []struct {
		name      string
		estimated *float64
		actual    float64
		status    models.TaskStatus
		want      float64
	}{
		{"no estimate, not done", nil, 10, models.StatusInProgress, 0},
		{"no estimate, done", nil, 10, models.StatusDone, 100},
		{"zero estimate, done", estimate(0), 10, models.StatusDone, 100},
		{"halfway", estimate(20), 10, models.StatusInProgress, 50},
		{"exact", estimate(10), 10, models.StatusInProgress, 100},
		{"overrun clamps", estimate(10), 25, models.StatusInProgress, 100},
		{"untouched", estimate(10), 0, models.StatusToDo, 0},
	}
	for _, tt := range tests {
		task := &models.BacklogItem{
			Status:         tt.status,
			EstimatedHours: tt.estimated,
			ActualHours:    tt.actual,
			CreatedAt:      env.tasks.now(),
			UpdatedAt:      env.tasks.now(),
		}
		metrics := env.tasks.Metrics(task)
		if metrics.AdvancementPercent != tt.want {
			t.Errorf("%s: advancement = %g, want %g", tt.name, metrics.AdvancementPercent, tt.want)
		}
		if metrics.AdvancementPercent < 0 || metrics.AdvancementPercent > 100 {
			t.Errorf("%s: advancement %g out of [0,100]", tt.name, metrics.AdvancementPercent)
		}
	}
}

func TestWorkloadScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	estimated := 16.0 // 2 nominal days
	task := env.newTask(t, CreateTaskInput{Title: "feature", EstimatedHours: &estimated})

	metrics := env.tasks.Metrics(task)
	if metrics.AdvancementPercent != 0 || metrics.RemainingHours != 16 {
		t.Fatalf("fresh task: advancement=%g remaining=%g, want 0 and 16", metrics.AdvancementPercent, metrics.RemainingHours)
	}

	env.record(t, task.ID, env.devA.ID, date(2025, time.May, 5), 10)
	task, _ = env.tasks.GetTaskByID(ctx, task.ID)
	metrics = env.tasks.Metrics(task)
	if metrics.AdvancementPercent != 62.5 {
		t.Errorf("after 10h: advancement = %g, want 62.5 exactly", metrics.AdvancementPercent)
	}
	if metrics.RemainingHours != 6 {
		t.Errorf("after 10h: remaining = %g, want 6", metrics.RemainingHours)
	}

	env.record(t, task.ID, env.devA.ID, date(2025, time.May, 6), 10)
	task, _ = env.tasks.GetTaskByID(ctx, task.ID)
	metrics = env.tasks.Metrics(task)
	if metrics.ActualHours != 20 {
		t.Errorf("actual = %g, want 20", metrics.ActualHours)
	}
	if metrics.AdvancementPercent != 100 {
		t.Errorf("overrun: advancement = %g, want clamped 100", metrics.AdvancementPercent)
	}
	if metrics.RemainingHours != 0 {
		t.Errorf("overrun: remaining = %g, want clamped 0", metrics.RemainingHours)
	}
}

func TestAlertLevelFromExpectedEnd(t *testing.T) {
	env := newTestEnv(t)
	now := date(2025, time.May, 5)
	env.tasks.now = func() time.Time { return now }

	deadline := func(t time.Time) *time.Time { return &t }
	tests := []struct {
		name string
		end  *time.Time
		want models.AlertLevel
	}{
		{"overdue", deadline(now.Add(-time.Hour)), models.AlertUrgent},
		{"inside 48h", deadline(now.Add(24 * time.Hour)), models.AlertWarning},
		{"at 48h", deadline(now.Add(48 * time.Hour)), models.AlertWarning},
		{"comfortable", deadline(now.Add(72 * time.Hour)), models.AlertOK},
	}
	for _, tt := range tests {
		task := &models.BacklogItem{Status: models.StatusInProgress, ExpectedEnd: tt.end, CreatedAt: now, UpdatedAt: now}
		if got := env.tasks.Metrics(task).Alert; got != tt.want {
			t.Errorf("%s: alert = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAlertLevelFromComplexity(t *testing.T) {
	env := newTestEnv(t)
	created := date(2025, time.May, 5)
	complexity := 4 // 4 x 1.25 = 5 days, deadline 2025-05-10

	task := &models.BacklogItem{
		Status:     models.StatusInProgress,
		Complexity: &complexity,
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	tests := []struct {
		name string
		now  time.Time
		want models.AlertLevel
	}{
		{"early", created.Add(24 * time.Hour), models.AlertOK},
		{"two days left", created.Add(4 * 24 * time.Hour), models.AlertWarning},
		{"past estimated duration", created.Add(6 * 24 * time.Hour), models.AlertUrgent},
	}
	for _, tt := range tests {
		env.tasks.now = func() time.Time { return tt.now }
		if got := env.tasks.Metrics(task).Alert; got != tt.want {
			t.Errorf("%s: alert = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAlertLevelFromStaleness(t *testing.T) {
	env := newTestEnv(t)
	created := date(2025, time.May, 5)

	task := &models.BacklogItem{Status: models.StatusToDo, CreatedAt: created, UpdatedAt: created}

	env.tasks.now = func() time.Time { return created.Add(3 * 24 * time.Hour) }
	if got := env.tasks.Metrics(task).Alert; got != models.AlertOK {
		t.Errorf("3 days idle: alert = %q, want ok", got)
	}

	env.tasks.now = func() time.Time { return created.Add(8 * 24 * time.Hour) }
	if got := env.tasks.Metrics(task).Alert; got != models.AlertWarning {
		t.Errorf("8 days idle: alert = %q, want warning", got)
	}
}
