package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepWith(statuses ...TaskStatus) *ProjectStep {
	s := &ProjectStep{}
	for i, st := range statuses {
		s.Tasks = append(s.Tasks, ProjectTask{Order: i, Status: st})
	}
	return s
}

func TestProjectStep_Metrics(t *testing.T) {
	tests := []struct {
		name     string
		step     *ProjectStep
		status   string
		progress string
		percent  any
	}{
		{name: "no tasks", step: stepWith(), status: StepNotStarted, progress: "No tasks", percent: 0},
		{name: "single pending task", step: stepWith(TaskPending), status: StepNotStarted, progress: "0 of 1 task", percent: "0%"},
		{name: "half done", step: stepWith(TaskDone, TaskPending, TaskNA, TaskPending), status: StepInProgress, progress: "2 of 4 tasks", percent: "50%"},
		{name: "na counts as complete", step: stepWith(TaskNA, TaskDone), status: StepCompleted, progress: "2 of 2 tasks", percent: "100%"},
		{name: "three quarters", step: stepWith(TaskDone, TaskDone, TaskDone, TaskPending), status: StepInProgress, progress: "3 of 4 tasks", percent: "75%"},
		{name: "rounds", step: stepWith(TaskDone, TaskPending, TaskPending), status: StepInProgress, progress: "1 of 3 tasks", percent: "33%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.step.Status())
			assert.Equal(t, tt.progress, tt.step.ProgressText())
			assert.Equal(t, tt.percent, tt.step.CompletionPercentage())
		})
	}
}

func TestProject_NextStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    ProjectStatus
		completed int64
		total     int64
		want      ProjectStatus
	}{
		{name: "active all done", status: ProjectActive, completed: 3, total: 3, want: ProjectCompleted},
		{name: "active partial", status: ProjectActive, completed: 1, total: 3, want: ProjectActive},
		{name: "completed reopened", status: ProjectCompleted, completed: 2, total: 3, want: ProjectActive},
		{name: "zero tasks completes", status: ProjectActive, completed: 0, total: 0, want: ProjectCompleted},
		{name: "archived frozen", status: ProjectArchived, completed: 3, total: 3, want: ProjectArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{Status: tt.status}
			assert.Equal(t, tt.want, p.NextStatus(tt.completed, tt.total))
		})
	}
}

func TestProjectCompletion(t *testing.T) {
	assert.Equal(t, "100%", ProjectCompletion(0, 0))
	assert.Equal(t, "25%", ProjectCompletion(1, 4))
	assert.Equal(t, "67%", ProjectCompletion(2, 3))
}

func TestInventoryField_Value(t *testing.T) {
	n := 42.0
	f := InventoryField{FieldType: FieldNumber, NumberValue: &n, TextValue: "ignored"}
	assert.Equal(t, 42.0, f.Value())
	assert.True(t, f.HasValue())

	empty := InventoryField{FieldType: FieldDatetime}
	assert.Nil(t, empty.Value())
	assert.False(t, empty.HasValue())

	url := InventoryField{FieldType: FieldURL, TextValue: "https://example.com"}
	assert.Equal(t, "https://example.com", url.Value())

	secret := InventoryField{FieldType: FieldPassword, FieldTemplate: &TemplateField{IsSecret: true}}
	assert.True(t, secret.IsSecret())
	assert.False(t, secret.HasValue())
}

func TestTemplateField_BeforeSave(t *testing.T) {
	f := &TemplateField{GroupName: "  network "}
	assert.NoError(t, f.BeforeSave(nil))
	assert.Equal(t, "NETWORK", f.GroupName)
}
