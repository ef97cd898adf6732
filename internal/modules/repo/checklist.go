package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/ordering"
)

// DefaultIcon is used when a template carries no icon of its own.
const DefaultIcon = "📋"

// HeaderPatch carries the optional title and description of an editable header.
type HeaderPatch struct {
	Title       *string
	Description *string
}

type ChecklistRepo interface {
	ListSteps(ctx context.Context, projectID uuid.UUID) ([]model.ProjectStep, error)
	GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*model.ProjectStep, error)
	AddStep(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectStep, int64, error)
	ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
	UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch HeaderPatch) (*model.ProjectStep, error)
	DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error

	GetTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) (*model.ProjectTask, error)
	AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error)
	ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error
	MutateTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, fn func(t *model.ProjectTask) error) (*model.ProjectTask, error)
	DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, guard func(t *model.ProjectTask) error) error
}

type checklistRepo struct{ db *gorm.DB }

func NewChecklistRepo(db *gorm.DB) ChecklistRepo {
	return &checklistRepo{db: db}
}

func orderedTasks(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *checklistRepo) ListSteps(ctx context.Context, projectID uuid.UUID) ([]model.ProjectStep, error) {
	items := []model.ProjectStep{}
	err := r.db.WithContext(ctx).
		Preload("Tasks", orderedTasks).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func (r *checklistRepo) GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*model.ProjectStep, error) {
	var s model.ProjectStep
	err := r.db.WithContext(ctx).
		Preload("Tasks", orderedTasks).
		Where("id = ? AND project_id = ?", stepID, projectID).
		First(&s).Error
	if err != nil {
		return nil, apperr.FromDB("step", err)
	}
	return &s, nil
}

// AddStep clones an active step template and its active tasks into the project.
// The returned count is the number of steps the project had before the insert.
func (r *checklistRepo) AddStep(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectStep, int64, error) {
	var (
		step  model.ProjectStep
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tpl, err := findStepTemplate(tx, templateID, true)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.ProjectStep{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		next, err := ordering.Next(tx, &model.ProjectStep{}, ordering.Scope{"project_id": projectID})
		if err != nil {
			return err
		}

		step = model.ProjectStep{
			ProjectID:      projectID,
			StepTemplateID: &tpl.ID,
			Title:          firstNonBlank(customTitle, tpl.Title),
			Description:    tpl.Description,
			Icon:           firstNonBlank(tpl.Icon, DefaultIcon),
			Order:          next,
		}
		if err := tx.Create(&step).Error; err != nil {
			return apperr.FromDB("step", err)
		}

		tasks := make([]model.ProjectTask, 0, len(tpl.Tasks))
		for i, tt := range tpl.Tasks {
			tasks = append(tasks, model.NewTaskFromTemplate(step.ID, tt, i))
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return apperr.FromDB("task", err)
			}
		}
		step.Tasks = tasks
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &step, count, nil
}

func (r *checklistRepo) ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ordering.Reorder(tx, &model.ProjectStep{}, ordering.Scope{"project_id": projectID}, ids)
		return err
	})
}

func (r *checklistRepo) UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch HeaderPatch) (*model.ProjectStep, error) {
	var s model.ProjectStep
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND project_id = ?", stepID, projectID).First(&s).Error; err != nil {
			return apperr.FromDB("step", err)
		}
		updates := patch.apply(&s.Title, &s.Description)
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.ProjectStep{}).Where("id = ?", s.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *checklistRepo) DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		var taskIDs []uuid.UUID
		if err := tx.Model(&model.ProjectTask{}).Where("project_step_id = ?", stepID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}
		return tx.Where("id = ?", stepID).Delete(&model.ProjectStep{}).Error
	})
}

func (r *checklistRepo) GetTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) (*model.ProjectTask, error) {
	db := r.db.WithContext(ctx)
	if err := stepInProject(db, projectID, stepID); err != nil {
		return nil, err
	}
	return findTask(db, stepID, taskID)
}

func (r *checklistRepo) AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error) {
	var t model.ProjectTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		next, err := ordering.Next(tx, &model.ProjectTask{}, ordering.Scope{"project_step_id": stepID})
		if err != nil {
			return err
		}
		t = model.ProjectTask{
			ProjectStepID:   stepID,
			Title:           title,
			Order:           next,
			Status:          model.TaskPending,
			ManuallyCreated: true,
		}
		if err := tx.Create(&t).Error; err != nil {
			return apperr.FromDB("task", err)
		}
		return refreshProjectStatus(tx, projectID)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *checklistRepo) ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		_, err := ordering.Reorder(tx, &model.ProjectTask{}, ordering.Scope{"project_step_id": stepID}, ids)
		return err
	})
}

// MutateTask applies fn to the task and recomputes the project status in the same transaction.
func (r *checklistRepo) MutateTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, fn func(t *model.ProjectTask) error) (*model.ProjectTask, error) {
	var out *model.ProjectTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		t, err := findTask(tx, stepID, taskID)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		if err := tx.Model(t).Select("status", "completed_by_id", "completed_at").Updates(t).Error; err != nil {
			return err
		}
		out = t
		return refreshProjectStatus(tx, projectID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *checklistRepo) DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, guard func(t *model.ProjectTask) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		t, err := findTask(tx, stepID, taskID)
		if err != nil {
			return err
		}
		if err := guard(t); err != nil {
			return err
		}
		return deleteTasks(tx, []uuid.UUID{t.ID})
	})
}

func stepInProject(db *gorm.DB, projectID uuid.UUID, stepID uuid.UUID) error {
	var n int64
	if err := db.Model(&model.ProjectStep{}).Where("id = ? AND project_id = ?", stepID, projectID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("step")
	}
	return nil
}

func findTask(db *gorm.DB, stepID uuid.UUID, taskID uuid.UUID) (*model.ProjectTask, error) {
	var t model.ProjectTask
	if err := db.Where("id = ? AND project_step_id = ?", taskID, stepID).First(&t).Error; err != nil {
		return nil, apperr.FromDB("task", err)
	}
	return &t, nil
}

// deleteTasks removes tasks together with their comments, soft-deleted ones included.
func deleteTasks(tx *gorm.DB, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := tx.Unscoped().Where("project_task_id IN ?", taskIDs).Delete(&model.TaskComment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", taskIDs).Delete(&model.ProjectTask{}).Error
}

// apply copies the set fields onto title and description and returns the column updates.
func (p HeaderPatch) apply(title *string, description *string) map[string]any {
	updates := map[string]any{}
	if p.Title != nil {
		*title = *p.Title
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		*description = *p.Description
		updates["description"] = *p.Description
	}
	return updates
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
