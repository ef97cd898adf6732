package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/ordering"
)

// StepTemplateEdit adds and removes task templates of one step template.
// With Sync set the change is propagated to steps of active projects.
type StepTemplateEdit struct {
	Add     []model.TaskTemplate
	Remove  []uuid.UUID
	Sync    bool
	ActorID *uuid.UUID
}

type SyncReport struct {
	TemplateID    uuid.UUID   `json:"template_id"`
	StepsScanned  int         `json:"steps_scanned"`
	TasksRemoved  int64       `json:"tasks_removed"`
	TasksAdded    int         `json:"tasks_added"`
	AddedTemplate []uuid.UUID `json:"added_task_templates"`
}

type SyncRepo interface {
	ApplyStepTemplateEdit(ctx context.Context, templateID uuid.UUID, edit StepTemplateEdit) (*SyncReport, error)
	SyncStepTemplate(ctx context.Context, templateID uuid.UUID, actorID *uuid.UUID) (*SyncReport, error)
}

type syncRepo struct{ db *gorm.DB }

func NewSyncRepo(db *gorm.DB) SyncRepo {
	return &syncRepo{db: db}
}

// ApplyStepTemplateEdit runs removal, template changes and gap-fill in one transaction.
// Removal always runs first since it moves the max order gap-fill appends after.
func (r *syncRepo) ApplyStepTemplateEdit(ctx context.Context, templateID uuid.UUID, edit StepTemplateEdit) (*SyncReport, error) {
	report := &SyncReport{TemplateID: templateID, AddedTemplate: []uuid.UUID{}}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findStepTemplate(tx, templateID, false); err != nil {
			return err
		}

		var removable []uuid.UUID
		if len(edit.Remove) > 0 {
			err := tx.Model(&model.TaskTemplate{}).
				Where("id IN ? AND step_template_id = ?", edit.Remove, templateID).
				Pluck("id", &removable).Error
			if err != nil {
				return err
			}
		}

		var stepIDs []uuid.UUID
		if edit.Sync {
			var err error
			if stepIDs, err = inScopeSteps(tx, templateID); err != nil {
				return err
			}
			removed, err := removeSyncedTasks(tx, stepIDs, removable)
			if err != nil {
				return err
			}
			report.TasksRemoved = removed
		}

		if len(removable) > 0 {
			// steps outside the sync scope keep their tasks, detached from the template
			if err := tx.Model(&model.ProjectTask{}).Where("task_template_id IN ?", removable).Update("task_template_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", removable).Delete(&model.TaskTemplate{}).Error; err != nil {
				return err
			}
		}

		for i := range edit.Add {
			tt := edit.Add[i]
			tt.ID = uuid.Nil
			tt.StepTemplateID = templateID
			if err := tx.Create(&tt).Error; err != nil {
				return apperr.FromDB("task template", err)
			}
			report.AddedTemplate = append(report.AddedTemplate, tt.ID)
		}

		if !edit.Sync {
			return nil
		}
		added, err := gapFill(tx, templateID, stepIDs)
		if err != nil {
			return err
		}
		report.StepsScanned = len(stepIDs)
		report.TasksAdded = added
		if err := refreshProjectsOfSteps(tx, stepIDs); err != nil {
			return err
		}
		return writeSyncLog(tx, report, edit.ActorID)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SyncStepTemplate appends missing active task templates to in-scope steps.
func (r *syncRepo) SyncStepTemplate(ctx context.Context, templateID uuid.UUID, actorID *uuid.UUID) (*SyncReport, error) {
	report := &SyncReport{TemplateID: templateID, AddedTemplate: []uuid.UUID{}}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findStepTemplate(tx, templateID, false); err != nil {
			return err
		}
		stepIDs, err := inScopeSteps(tx, templateID)
		if err != nil {
			return err
		}
		added, err := gapFill(tx, templateID, stepIDs)
		if err != nil {
			return err
		}
		report.StepsScanned = len(stepIDs)
		report.TasksAdded = added
		if err := refreshProjectsOfSteps(tx, stepIDs); err != nil {
			return err
		}
		return writeSyncLog(tx, report, actorID)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// inScopeSteps returns the steps cloned from the template whose project is active.
// Completed and archived projects are never touched.
func inScopeSteps(tx *gorm.DB, templateID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := tx.Model(&model.ProjectStep{}).
		Joins("JOIN projects ON projects.id = project_steps.project_id").
		Where("project_steps.step_template_id = ? AND projects.status = ?", templateID, model.ProjectActive).
		Order("project_steps.id").
		Pluck("project_steps.id", &ids).Error
	return ids, err
}

// removeSyncedTasks deletes in-scope tasks cloned from removed task templates,
// whatever their status or origin.
func removeSyncedTasks(tx *gorm.DB, stepIDs []uuid.UUID, removed []uuid.UUID) (int64, error) {
	if len(stepIDs) == 0 || len(removed) == 0 {
		return 0, nil
	}
	var taskIDs []uuid.UUID
	err := tx.Model(&model.ProjectTask{}).
		Where("project_step_id IN ? AND task_template_id IN ?", stepIDs, removed).
		Pluck("id", &taskIDs).Error
	if err != nil {
		return 0, err
	}
	if err := deleteTasks(tx, taskIDs); err != nil {
		return 0, err
	}
	return int64(len(taskIDs)), nil
}

// gapFill appends every active task template missing from a step, after the
// step's current max order, one slot per addition.
func gapFill(tx *gorm.DB, templateID uuid.UUID, stepIDs []uuid.UUID) (int, error) {
	if len(stepIDs) == 0 {
		return 0, nil
	}
	var active []model.TaskTemplate
	if err := activeTasks(tx.Where("step_template_id = ?", templateID)).Find(&active).Error; err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, nil
	}

	added := 0
	for _, stepID := range stepIDs {
		var present []uuid.UUID
		err := tx.Model(&model.ProjectTask{}).
			Where("project_step_id = ? AND task_template_id IS NOT NULL", stepID).
			Pluck("task_template_id", &present).Error
		if err != nil {
			return added, err
		}
		have := make(map[uuid.UUID]struct{}, len(present))
		for _, id := range present {
			have[id] = struct{}{}
		}

		next, err := ordering.Next(tx, &model.ProjectTask{}, ordering.Scope{"project_step_id": stepID})
		if err != nil {
			return added, err
		}
		for _, tt := range active {
			if _, ok := have[tt.ID]; ok {
				continue
			}
			task := model.NewTaskFromTemplate(stepID, tt, next)
			if err := tx.Create(&task).Error; err != nil {
				return added, apperr.FromDB("task", err)
			}
			next++
			added++
		}
	}
	return added, nil
}

func refreshProjectsOfSteps(tx *gorm.DB, stepIDs []uuid.UUID) error {
	if len(stepIDs) == 0 {
		return nil
	}
	var projectIDs []uuid.UUID
	if err := tx.Model(&model.ProjectStep{}).Distinct("project_id").Where("id IN ?", stepIDs).Pluck("project_id", &projectIDs).Error; err != nil {
		return err
	}
	for _, id := range projectIDs {
		if err := refreshProjectStatus(tx, id); err != nil {
			return err
		}
	}
	return nil
}

func writeSyncLog(tx *gorm.DB, report *SyncReport, actorID *uuid.UUID) error {
	added := make([]string, 0, len(report.AddedTemplate))
	for _, id := range report.AddedTemplate {
		added = append(added, id.String())
	}
	return tx.Create(&model.TemplateSyncLog{
		StepTemplateID: report.TemplateID,
		TriggeredByID:  actorID,
		StepsScanned:   report.StepsScanned,
		TasksRemoved:   report.TasksRemoved,
		TasksAdded:     report.TasksAdded,
		Details:        datatypes.JSONMap{"added_task_templates": added},
	}).Error
}
