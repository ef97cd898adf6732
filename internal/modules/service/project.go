package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type ListProjectsInput struct {
	UserID uuid.UUID
	Level  model.AccessLevel
	// Status filters by project status. Empty means active, "all" disables the filter.
	Status string
}

type UpdateProjectInput struct {
	ProjectID   uuid.UUID
	Name        *string
	Description *string
	Status      *model.ProjectStatus
}

type ProjectSummary struct {
	Project              *model.Project `json:"project"`
	CompletedTasks       int64          `json:"completed_tasks"`
	TotalTasks           int64          `json:"total_tasks"`
	CompletionPercentage string         `json:"completion_percentage"`
	Roles                model.Roles    `json:"roles"`
}

// ProjectService covers the project lifecycle.
type ProjectService interface {
	// Create stores the project and a full admin row for the creator in one transaction.
	Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error
	// List returns the caller's projects at the requested level, newest first.
	List(ctx context.Context, in ListProjectsInput) ([]model.Project, error)
	Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error)
	// Summary adds the completion percentage and the caller's roles.
	Summary(ctx context.Context, projectID uuid.UUID, userID uuid.UUID) (*ProjectSummary, error)
	Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	r     repo.ProjectRepo
	perms PermissionService
}

func NewProjectService(r repo.ProjectRepo, perms PermissionService) ProjectService {
	return &projectService{r: r, perms: perms}
}

func (s *projectService) Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.Invalid("project name is empty")
	}
	p.Status = model.ProjectActive
	if err := s.r.Create(ctx, p, creatorID); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *projectService) List(ctx context.Context, in ListProjectsInput) ([]model.Project, error) {
	status := in.Status
	if status == "" {
		status = string(model.ProjectActive)
	}
	if status != repo.StatusAll && !model.ProjectStatus(status).Valid() {
		return nil, apperr.Invalid("unknown project status %q", status)
	}

	ids, err := s.perms.ProjectsForUser(ctx, in.UserID, in.Level)
	if err != nil {
		return nil, fmt.Errorf("resolve projects: %w", err)
	}
	return s.r.ListByIDs(ctx, ids, status)
}

func (s *projectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	return s.r.Get(ctx, projectID)
}

func (s *projectService) Summary(ctx context.Context, projectID uuid.UUID, userID uuid.UUID) (*ProjectSummary, error) {
	p, err := s.r.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	completed, total, err := s.r.TaskCounts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	roles, err := s.perms.Roles(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectSummary{
		Project:              p,
		CompletedTasks:       completed,
		TotalTasks:           total,
		CompletionPercentage: model.ProjectCompletion(completed, total),
		Roles:                roles,
	}, nil
}

func (s *projectService) Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error) {
	p, err := s.r.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("project name is empty")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Invalid("unknown project status %q", *in.Status)
		}
		p.Status = *in.Status
	}
	if err := s.r.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	if err := s.r.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
