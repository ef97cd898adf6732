package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type PermissionRepo interface {
	Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error)
	ListForUser(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error)
	ProjectIDsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error)
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error)
	Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error)
	Mutate(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, fn func(p *model.ProjectPermission) error) (*model.ProjectPermission, error)
	Delete(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, guard func(p *model.ProjectPermission) error) error
}

type permissionRepo struct{ db *gorm.DB }

func NewPermissionRepo(db *gorm.DB) PermissionRepo {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error) {
	var p model.ProjectPermission
	err := r.db.WithContext(ctx).Where("user_id = ? AND project_id = ?", userID, projectID).First(&p).Error
	if err != nil {
		return nil, apperr.FromDB("permission", err)
	}
	return &p, nil
}

func (r *permissionRepo) ListForUser(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error) {
	var items []model.ProjectPermission
	if len(projectIDs) == 0 {
		return items, nil
	}
	return items, r.db.WithContext(ctx).Where("user_id = ? AND project_id IN ?", userID, projectIDs).Find(&items).Error
}

func (r *permissionRepo) ProjectIDsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	q := r.db.WithContext(ctx).Model(&model.ProjectPermission{}).Where("user_id = ?", userID)
	switch level {
	case model.LevelAdmin:
		q = q.Where("is_admin = ?", true)
	case model.LevelWrite:
		q = q.Where("can_edit = ? OR is_admin = ?", true, true)
	case model.LevelRead:
		q = q.Where("can_view = ? OR can_edit = ? OR is_admin = ?", true, true, true)
	default:
		// no level means no access, never everything
		return ids, nil
	}
	return ids, q.Pluck("project_id", &ids).Error
}

func (r *permissionRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error) {
	var items []model.ProjectPermission
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("project_permissions.project_id = ?", projectID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "User", Name: "username"}}).
		Find(&items).Error
	return items, err
}

func (r *permissionRepo) Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error) {
	p := model.ProjectPermission{UserID: userID, ProjectID: projectID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAdmin(tx, projectID, actorID); err != nil {
			return err
		}

		var users int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return apperr.NotFound("user")
		}

		var existing int64
		if err := tx.Model(&model.ProjectPermission{}).Where("user_id = ? AND project_id = ?", userID, projectID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperr.FromDB("permission", gorm.ErrDuplicatedKey)
		}

		return apperr.FromDB("permission", tx.Create(&p).Error)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permissionRepo) Mutate(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, fn func(p *model.ProjectPermission) error) (*model.ProjectPermission, error) {
	var target model.ProjectPermission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAdmin(tx, projectID, actorID); err != nil {
			return err
		}
		if err := lockPermission(tx, projectID, permissionID, &target); err != nil {
			return err
		}
		if err := fn(&target); err != nil {
			return err
		}
		return tx.Model(&target).Select("can_view", "can_edit", "is_admin").Updates(&target).Error
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *permissionRepo) Delete(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, guard func(p *model.ProjectPermission) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAdmin(tx, projectID, actorID); err != nil {
			return err
		}
		var target model.ProjectPermission
		if err := lockPermission(tx, projectID, permissionID, &target); err != nil {
			return err
		}
		if err := guard(&target); err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
}

// requireAdmin locks the actor's row so a concurrent demotion cannot slip
// between the check and the write.
func requireAdmin(tx *gorm.DB, projectID uuid.UUID, actorID uuid.UUID) error {
	var actor model.ProjectPermission
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND project_id = ?", actorID, projectID).
		First(&actor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Denied("no access to project")
	}
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		return apperr.Denied("admin role required")
	}
	return nil
}

func lockPermission(tx *gorm.DB, projectID uuid.UUID, permissionID uuid.UUID, dest *model.ProjectPermission) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND project_id = ?", permissionID, projectID).
		First(dest).Error
	return apperr.FromDB("permission", err)
}
