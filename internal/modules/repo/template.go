package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type TemplateRepo interface {
	ListActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error)
	ListActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error)
	GetStepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error)
	GetInventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error)
	CreateStepTemplate(ctx context.Context, t *model.StepTemplate) error
	CreateInventoryTemplate(ctx context.Context, t *model.InventoryTemplate) error
}

type templateRepo struct{ db *gorm.DB }

func NewTemplateRepo(db *gorm.DB) TemplateRepo {
	return &templateRepo{db: db}
}

func activeTasks(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order ASC")
}

func activeFields(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("group_order ASC, field_order ASC")
}

func (r *templateRepo) ListActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error) {
	items := []model.StepTemplate{}
	err := r.db.WithContext(ctx).
		Preload("Tasks", activeTasks).
		Where("is_active = ?", true).
		Order("default_order ASC, title ASC").
		Find(&items).Error
	return items, err
}

func (r *templateRepo) ListActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error) {
	items := []model.InventoryTemplate{}
	err := r.db.WithContext(ctx).
		Preload("Fields", activeFields).
		Where("is_active = ?", true).
		Order("default_order ASC, title ASC").
		Find(&items).Error
	return items, err
}

func (r *templateRepo) GetStepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error) {
	return findStepTemplate(r.db.WithContext(ctx), id, mustBeActive)
}

func (r *templateRepo) GetInventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error) {
	return findInventoryTemplate(r.db.WithContext(ctx), id, mustBeActive)
}

func (r *templateRepo) CreateStepTemplate(ctx context.Context, t *model.StepTemplate) error {
	return apperr.FromDB("step template", r.db.WithContext(ctx).Create(t).Error)
}

func (r *templateRepo) CreateInventoryTemplate(ctx context.Context, t *model.InventoryTemplate) error {
	return apperr.FromDB("inventory template", r.db.WithContext(ctx).Create(t).Error)
}

// findStepTemplate loads a template with its active tasks in order.
func findStepTemplate(db *gorm.DB, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error) {
	q := db.Preload("Tasks", activeTasks).Where("id = ?", id)
	if mustBeActive {
		q = q.Where("is_active = ?", true)
	}
	var t model.StepTemplate
	if err := q.First(&t).Error; err != nil {
		return nil, apperr.FromDB("step template", err)
	}
	return &t, nil
}

// findInventoryTemplate loads a template with its active fields in (group, field) order.
func findInventoryTemplate(db *gorm.DB, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error) {
	q := db.Preload("Fields", activeFields).Where("id = ?", id)
	if mustBeActive {
		q = q.Where("is_active = ?", true)
	}
	var t model.InventoryTemplate
	if err := q.First(&t).Error; err != nil {
		return nil, apperr.FromDB("inventory template", err)
	}
	return &t, nil
}
