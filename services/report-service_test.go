package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDeveloperReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	taskA := env.newTask(t, CreateTaskInput{Title: "task a"})
	taskB := env.newTask(t, CreateTaskInput{Title: "task b"})

	env.record(t, taskA.ID, env.devA.ID, date(2025, time.May, 5), 6)
	env.record(t, taskB.ID, env.devA.ID, date(2025, time.May, 5), 2)
	env.record(t, taskA.ID, env.devA.ID, date(2025, time.May, 6), 8)
	env.record(t, taskA.ID, env.devB.ID, date(2025, time.May, 6), 8) // other developer
	env.record(t, taskA.ID, env.devA.ID, date(2025, time.June, 2), 8) // outside period

	report, err := env.reports.DeveloperReport(ctx, env.devA.ID, date(2025, time.May, 1), date(2025, time.May, 31))
	if err != nil {
		t.Fatalf("developer report failed: %v", err)
	}

	if report.Username != "bob" {
		t.Errorf("username = %q, want bob", report.Username)
	}
	if report.TotalHours != 16 {
		t.Errorf("total hours = %g, want 16", report.TotalHours)
	}
	if report.TotalDays != 2 { // 16 / 8
		t.Errorf("total days = %g, want 2", report.TotalDays)
	}
	if len(report.ByTask) != 2 {
		t.Fatalf("got %d task rows, want 2", len(report.ByTask))
	}
	if report.ByTask[0].Title != "task a" || report.ByTask[0].Hours != 14 {
		t.Errorf("task row = %+v, want task a with 14 hours", report.ByTask[0])
	}
	if len(report.ByDay) != 2 {
		t.Errorf("got %d day rows, want 2", len(report.ByDay))
	}
}

func TestDeveloperReportUnknownDeveloper(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reports.DeveloperReport(context.Background(), env.project.ID, date(2025, time.May, 1), date(2025, time.May, 31))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestProjectReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID := env.project.ID

	estimated := 16.0
	taskA := env.newTask(t, CreateTaskInput{Title: "task a", ProjectID: &projectID, EstimatedHours: &estimated})
	taskB := env.newTask(t, CreateTaskInput{Title: "task b", ProjectID: &projectID})
	env.newTask(t, CreateTaskInput{Title: "elsewhere"}) // no project

	archived := env.newTask(t, CreateTaskInput{Title: "archived", ProjectID: &projectID})
	if _, err := env.tasks.Archive(ctx, archived.ID, env.manager.ID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	// taskB goes to done.
	for i := 0; i < 3; i++ {
		if _, err := env.tasks.MoveForward(ctx, taskB.ID); err != nil {
			t.Fatalf("move forward failed: %v", err)
		}
	}

	env.record(t, taskA.ID, env.devA.ID, date(2025, time.May, 5), 8)
	env.record(t, taskA.ID, env.devB.ID, date(2025, time.May, 5), 4)

	report, err := env.reports.ProjectReport(ctx, projectID)
	if err != nil {
		t.Fatalf("project report failed: %v", err)
	}

	if report.TaskCount != 2 {
		t.Errorf("task count = %d, want 2 (archived excluded)", report.TaskCount)
	}
	if report.DoneCount != 1 {
		t.Errorf("done count = %d, want 1", report.DoneCount)
	}
	if report.EstimatedHours != 16 {
		t.Errorf("estimated hours = %g, want 16", report.EstimatedHours)
	}
	if report.ActualHours != 12 {
		t.Errorf("actual hours = %g, want 12", report.ActualHours)
	}
	if report.ActualDays != 1.5 {
		t.Errorf("actual days = %g, want 1.5", report.ActualDays)
	}
	if len(report.ByDeveloper) != 2 {
		t.Fatalf("got %d developer rows, want 2", len(report.ByDeveloper))
	}
	if report.ByDeveloper[0].Username != "bob" || report.ByDeveloper[0].Hours != 8 {
		t.Errorf("developer row = %+v, want bob with 8 hours", report.ByDeveloper[0])
	}

	// Per-task metrics ride along.
	for _, taskRow := range report.Tasks {
		if taskRow.TaskID == taskA.ID && taskRow.Metrics.AdvancementPercent != 75 {
			t.Errorf("task a advancement = %g, want 75", taskRow.Metrics.AdvancementPercent)
		}
	}
}

func TestExportPeriodCSVThroughReports(t *testing.T) {
	env := newTestEnv(t)
	task := env.newTask(t, CreateTaskInput{Title: "task"})
	env.record(t, task.ID, env.devA.ID, date(2025, time.May, 5), 8)
	env.record(t, task.ID, env.devB.ID, date(2025, time.May, 6), 8)

	out, err := env.reports.ExportPeriodCSV(context.Background(), date(2025, time.May, 1), date(2025, time.May, 31))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want header plus two rows", len(lines))
	}
}
