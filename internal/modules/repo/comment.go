package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type CommentRepo interface {
	List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error)
	Create(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, c *model.TaskComment) error
	Mutate(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, fn func(c *model.TaskComment) error) (*model.TaskComment, error)
	SoftDelete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, guard func(c *model.TaskComment, actor *model.ProjectPermission) error) error
}

type commentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &commentRepo{db: db}
}

// List returns the live comments of a task, oldest first.
func (r *commentRepo) List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error) {
	db := r.db.WithContext(ctx)
	if err := stepInProject(db, projectID, stepID); err != nil {
		return nil, err
	}
	if _, err := findTask(db, stepID, taskID); err != nil {
		return nil, err
	}
	items := []model.TaskComment{}
	err := db.Preload("User").
		Where("project_task_id = ?", taskID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *commentRepo) Create(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, c *model.TaskComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stepInProject(tx, projectID, stepID); err != nil {
			return err
		}
		if _, err := findTask(tx, stepID, c.ProjectTaskID); err != nil {
			return err
		}
		return tx.Create(c).Error
	})
}

func (r *commentRepo) Mutate(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, fn func(c *model.TaskComment) error) (*model.TaskComment, error) {
	var c model.TaskComment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findComment(tx, projectID, commentID, &c); err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		return tx.Model(&c).Select("comment_text").Updates(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SoftDelete stamps deleted_at. The guard sees the actor's permission row, or nil when there is none.
func (r *commentRepo) SoftDelete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, guard func(c *model.TaskComment, actor *model.ProjectPermission) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.TaskComment
		if err := findComment(tx, projectID, commentID, &c); err != nil {
			return err
		}

		var actor *model.ProjectPermission
		var p model.ProjectPermission
		err := tx.Where("user_id = ? AND project_id = ?", actorID, projectID).Limit(1).Find(&p).Error
		if err != nil {
			return err
		}
		if p.ID != uuid.Nil {
			actor = &p
		}

		if err := guard(&c, actor); err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

// findComment resolves a live comment through its task and step to the project.
func findComment(tx *gorm.DB, projectID uuid.UUID, commentID uuid.UUID, dest *model.TaskComment) error {
	err := tx.Joins("JOIN project_tasks ON project_tasks.id = task_comments.project_task_id").
		Joins("JOIN project_steps ON project_steps.id = project_tasks.project_step_id").
		Where("task_comments.id = ? AND project_steps.project_id = ?", commentID, projectID).
		First(dest).Error
	return apperr.FromDB("comment", err)
}
