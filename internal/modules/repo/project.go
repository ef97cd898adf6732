package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

// StatusAll disables the status filter when listing projects.
const StatusAll = "all"

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID, status string) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	TaskCounts(ctx context.Context, projectID uuid.UUID) (completed int64, total int64, err error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

// Create stores the project and makes the creator its full admin in one transaction.
func (r *projectRepo) Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&model.ProjectPermission{
			UserID:    creatorID,
			ProjectID: p.ID,
			CanView:   true,
			CanEdit:   true,
			IsAdmin:   true,
		}).Error
	})
}

func (r *projectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, apperr.FromDB("project", err)
	}
	return &p, nil
}

func (r *projectRepo) ListByIDs(ctx context.Context, ids []uuid.UUID, status string) ([]model.Project, error) {
	items := []model.Project{}
	if len(ids) == 0 {
		return items, nil
	}
	q := r.db.WithContext(ctx).Where("id IN ?", ids)
	if status != StatusAll {
		q = q.Where("status = ?", status)
	}
	return items, q.Order("created_at DESC").Find(&items).Error
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", p.ID).
		Select("name", "description", "status").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("project")
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stepIDs, taskIDs, inventoryIDs []uuid.UUID
		if err := tx.Model(&model.ProjectStep{}).Where("project_id = ?", id).Pluck("id", &stepIDs).Error; err != nil {
			return err
		}
		if len(stepIDs) > 0 {
			if err := tx.Model(&model.ProjectTask{}).Where("project_step_id IN ?", stepIDs).Pluck("id", &taskIDs).Error; err != nil {
				return err
			}
		}
		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectStep{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.ProjectInventory{}).Where("project_id = ?", id).Pluck("id", &inventoryIDs).Error; err != nil {
			return err
		}
		if len(inventoryIDs) > 0 {
			if err := tx.Where("inventory_id IN ?", inventoryIDs).Delete(&model.InventoryField{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectInventory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectPermission{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("project")
		}
		return nil
	})
}

func (r *projectRepo) TaskCounts(ctx context.Context, projectID uuid.UUID) (int64, int64, error) {
	return taskCounts(r.db.WithContext(ctx), projectID)
}

var completeStatuses = []string{string(model.TaskDone), string(model.TaskNA)}

type taskCountRow struct {
	Completed int64
	Total     int64
}

func taskCounts(tx *gorm.DB, projectID uuid.UUID) (int64, int64, error) {
	var row taskCountRow
	err := tx.Model(&model.ProjectTask{}).
		Joins("JOIN project_steps ON project_steps.id = project_tasks.project_step_id").
		Where("project_steps.project_id = ?", projectID).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN project_tasks.status IN ? THEN 1 ELSE 0 END), 0) AS completed",
			completeStatuses).
		Scan(&row).Error
	return row.Completed, row.Total, err
}

// refreshProjectStatus recomputes the derived status after a task mutation.
// Archived projects are left alone.
func refreshProjectStatus(tx *gorm.DB, projectID uuid.UUID) error {
	var p model.Project
	if err := tx.Select("id", "status").Where("id = ?", projectID).First(&p).Error; err != nil {
		return apperr.FromDB("project", err)
	}
	completed, total, err := taskCounts(tx, projectID)
	if err != nil {
		return err
	}
	next := p.NextStatus(completed, total)
	if next == p.Status {
		return nil
	}
	return tx.Model(&model.Project{}).Where("id = ?", projectID).Update("status", next).Error
}
