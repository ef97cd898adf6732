package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

// StepView is a step with its derived progress metrics.
type StepView struct {
	*model.ProjectStep
	Status               string `json:"status"`
	ProgressText         string `json:"progress_text"`
	CompletionPercentage any    `json:"completion_percentage"`
}

func NewStepView(s *model.ProjectStep) *StepView {
	return &StepView{
		ProjectStep:          s,
		Status:               s.Status(),
		ProgressText:         s.ProgressText(),
		CompletionPercentage: s.CompletionPercentage(),
	}
}

type AddStepInput struct {
	ProjectID   uuid.UUID
	TemplateID  uuid.UUID
	CustomTitle string
	ActorID     uuid.UUID
}

type AddStepOutput struct {
	Step *StepView `json:"step"`
	// PreviousCount is the number of steps before the insert.
	PreviousCount int64 `json:"previous_count"`
}

type UpdateTaskStatusInput struct {
	ProjectID uuid.UUID
	StepID    uuid.UUID
	TaskID    uuid.UUID
	Status    model.TaskStatus
	ActorID   uuid.UUID
}

// ChecklistService manages the steps of a project and the tasks inside them.
// Every lookup is scoped to the project (and step) passed in; callers have
// already checked the caller's role.
type ChecklistService interface {
	ListSteps(ctx context.Context, projectID uuid.UUID) ([]*StepView, error)
	GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*StepView, error)
	// AddStep clones an active step template and its active tasks after the last step.
	// The output carries the step count from before the insert.
	AddStep(ctx context.Context, in AddStepInput) (*AddStepOutput, error)
	// ReorderSteps ignores ids outside the project.
	ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
	UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectStep, error)
	// DeleteStep removes the step with its tasks and their comments.
	DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error

	// AddTask appends a manually created task at MAX(order)+1.
	AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error)
	ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error
	// UpdateTaskStatus accepts done or na. Requesting the current status resets the
	// task to pending. The project status is recomputed in the same transaction.
	UpdateTaskStatus(ctx context.Context, in UpdateTaskStatusInput) (*model.ProjectTask, error)
	// DeleteTask refuses tasks cloned from a template.
	DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) error
}

type checklistService struct {
	r      repo.ChecklistRepo
	events emitter
	now    func() time.Time
}

func NewChecklistService(r repo.ChecklistRepo, pub EventPublisher, keys config.MQRoutingKeys, log *zap.Logger) ChecklistService {
	return &checklistService{
		r:      r,
		events: emitter{pub: pub, keys: keys, log: log},
		now:    time.Now,
	}
}

func (s *checklistService) ListSteps(ctx context.Context, projectID uuid.UUID) ([]*StepView, error) {
	steps, err := s.r.ListSteps(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	out := make([]*StepView, 0, len(steps))
	for i := range steps {
		out = append(out, NewStepView(&steps[i]))
	}
	return out, nil
}

func (s *checklistService) GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*StepView, error) {
	step, err := s.r.GetStep(ctx, projectID, stepID)
	if err != nil {
		return nil, err
	}
	return NewStepView(step), nil
}

func (s *checklistService) AddStep(ctx context.Context, in AddStepInput) (*AddStepOutput, error) {
	if in.TemplateID == uuid.Nil {
		return nil, apperr.Invalid("template id is empty")
	}
	step, count, err := s.r.AddStep(ctx, in.ProjectID, in.TemplateID, in.CustomTitle)
	if err != nil {
		return nil, fmt.Errorf("add step: %w", err)
	}
	s.events.emit(ctx, s.events.keys.StepAdded, StepAddedEvent{
		ProjectID:  in.ProjectID,
		StepID:     step.ID,
		TemplateID: in.TemplateID,
		Tasks:      len(step.Tasks),
		ActorID:    in.ActorID,
	})
	return &AddStepOutput{Step: NewStepView(step), PreviousCount: count}, nil
}

func (s *checklistService) ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	if err := s.r.ReorderSteps(ctx, projectID, ids); err != nil {
		return fmt.Errorf("reorder steps: %w", err)
	}
	return nil
}

func (s *checklistService) UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectStep, error) {
	patch, err := cleanHeader(patch)
	if err != nil {
		return nil, err
	}
	return s.r.UpdateStepHeader(ctx, projectID, stepID, patch)
}

func (s *checklistService) DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error {
	if err := s.r.DeleteStep(ctx, projectID, stepID); err != nil {
		return fmt.Errorf("delete step: %w", err)
	}
	return nil
}

func (s *checklistService) AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Invalid("task title is empty")
	}
	t, err := s.r.AddTask(ctx, projectID, stepID, title)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return t, nil
}

func (s *checklistService) ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error {
	if err := s.r.ReorderTasks(ctx, projectID, stepID, ids); err != nil {
		return fmt.Errorf("reorder tasks: %w", err)
	}
	return nil
}

func (s *checklistService) UpdateTaskStatus(ctx context.Context, in UpdateTaskStatusInput) (*model.ProjectTask, error) {
	if in.Status != model.TaskDone && in.Status != model.TaskNA {
		return nil, apperr.Invalid("status must be %q or %q", model.TaskDone, model.TaskNA)
	}
	now := s.now()
	t, err := s.r.MutateTask(ctx, in.ProjectID, in.StepID, in.TaskID, func(t *model.ProjectTask) error {
		applyStatus(t, in.Status, in.ActorID, now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	s.events.emit(ctx, s.events.keys.TaskStatusChanged, TaskStatusChangedEvent{
		ProjectID: in.ProjectID,
		StepID:    in.StepID,
		TaskID:    t.ID,
		Status:    t.Status,
		ActorID:   in.ActorID,
		At:        now,
	})
	return t, nil
}

// applyStatus toggles back to pending when the requested status is already
// set, otherwise stamps the actor and time.
func applyStatus(t *model.ProjectTask, requested model.TaskStatus, actorID uuid.UUID, now time.Time) {
	if t.Status == requested {
		t.Status = model.TaskPending
		t.CompletedByID = nil
		t.CompletedAt = nil
		return
	}
	t.Status = requested
	t.CompletedByID = &actorID
	t.CompletedAt = &now
}

func (s *checklistService) DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) error {
	err := s.r.DeleteTask(ctx, projectID, stepID, taskID, func(t *model.ProjectTask) error {
		if !t.ManuallyCreated {
			return apperr.Denied("only manually created tasks can be deleted")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// cleanHeader trims the title and rejects a blank one.
func cleanHeader(p repo.HeaderPatch) (repo.HeaderPatch, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return p, apperr.Invalid("title is empty")
		}
		p.Title = &title
	}
	if p.Title == nil && p.Description == nil {
		return p, apperr.Invalid("nothing to update")
	}
	return p, nil
}
