package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

// PermissionService owns the per-project role flags of each user.
type PermissionService interface {
	// Get returns nil without error when the user holds no row on the project.
	Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error)
	GetMany(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error)
	// ProjectsForUser lists the projects where the user holds at least level.
	ProjectsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error)
	// Roles is the cumulative role set, empty when the user has no row.
	Roles(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (model.Roles, error)
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error)
	// Grant adds a row with every flag cleared. A second grant is a Conflict.
	Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error)
	// ToggleRole and Revoke refuse to touch the actor's own row.
	ToggleRole(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, role model.Role) (*model.ProjectPermission, error)
	Revoke(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID) error
}

type permissionService struct{ r repo.PermissionRepo }

func NewPermissionService(r repo.PermissionRepo) PermissionService {
	return &permissionService{r: r}
}

func (s *permissionService) Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error) {
	p, err := s.r.Get(ctx, userID, projectID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return p, nil
}

func (s *permissionService) GetMany(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error) {
	return s.r.ListForUser(ctx, userID, projectIDs)
}

func (s *permissionService) ProjectsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error) {
	return s.r.ProjectIDsForUser(ctx, userID, level)
}

// Roles never grants anything on a missing row.
func (s *permissionService) Roles(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (model.Roles, error) {
	p, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return p.Roles(), nil
}

func (s *permissionService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error) {
	return s.r.ListForProject(ctx, projectID)
}

func (s *permissionService) Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error) {
	if userID == uuid.Nil {
		return nil, apperr.Invalid("user id is empty")
	}
	p, err := s.r.Grant(ctx, projectID, actorID, userID)
	if err != nil {
		return nil, fmt.Errorf("grant permission: %w", err)
	}
	return p, nil
}

func (s *permissionService) ToggleRole(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, role model.Role) (*model.ProjectPermission, error) {
	if !role.Valid() {
		return nil, apperr.Invalid("unknown role %q", role)
	}
	p, err := s.r.Mutate(ctx, projectID, permissionID, actorID, func(p *model.ProjectPermission) error {
		if err := notSelf(p, actorID); err != nil {
			return err
		}
		return p.Toggle(role)
	})
	if err != nil {
		return nil, fmt.Errorf("toggle role: %w", err)
	}
	return p, nil
}

func (s *permissionService) Revoke(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID) error {
	err := s.r.Delete(ctx, projectID, permissionID, actorID, func(p *model.ProjectPermission) error {
		return notSelf(p, actorID)
	})
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// notSelf rejects any change an actor makes to their own permission row.
func notSelf(p *model.ProjectPermission, actorID uuid.UUID) error {
	if p.UserID == actorID {
		return apperr.Denied("cannot change your own permission")
	}
	return nil
}
