package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/ordering"
)

type InventoryRepo interface {
	List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error)
	Get(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) (*model.ProjectInventory, error)
	Add(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectInventory, int64, error)
	Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
	UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch HeaderPatch) (*model.ProjectInventory, error)
	Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error
	GetField(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID) (*model.InventoryField, error)
	SaveFields(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fn func(inv *model.ProjectInventory) ([]*model.InventoryField, error)) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepo(db *gorm.DB) InventoryRepo {
	return &inventoryRepo{db: db}
}

func orderedFields(db *gorm.DB) *gorm.DB {
	return db.Order("group_order ASC, field_order ASC")
}

func (r *inventoryRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error) {
	items := []model.ProjectInventory{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Get(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) (*model.ProjectInventory, error) {
	return findInventory(r.db.WithContext(ctx), projectID, inventoryID)
}

// Add clones an active inventory template and its active fields with empty values.
func (r *inventoryRepo) Add(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectInventory, int64, error) {
	var (
		inv   model.ProjectInventory
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tpl, err := findInventoryTemplate(tx, templateID, true)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.ProjectInventory{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		next, err := ordering.Next(tx, &model.ProjectInventory{}, ordering.Scope{"project_id": projectID})
		if err != nil {
			return err
		}

		inv = model.ProjectInventory{
			ProjectID:           projectID,
			InventoryTemplateID: &tpl.ID,
			Title:               firstNonBlank(customTitle, tpl.Title),
			Description:         tpl.Description,
			Icon:                firstNonBlank(tpl.Icon, DefaultIcon),
			Order:               next,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return apperr.FromDB("inventory", err)
		}

		fields := make([]model.InventoryField, 0, len(tpl.Fields))
		for _, tf := range tpl.Fields {
			fields = append(fields, model.NewFieldFromTemplate(inv.ID, tf))
		}
		if len(fields) > 0 {
			if err := tx.Create(&fields).Error; err != nil {
				return err
			}
		}
		inv.Fields = fields
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &inv, count, nil
}

func (r *inventoryRepo) Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ordering.Reorder(tx, &model.ProjectInventory{}, ordering.Scope{"project_id": projectID}, ids)
		return err
	})
}

func (r *inventoryRepo) UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch HeaderPatch) (*model.ProjectInventory, error) {
	var inv model.ProjectInventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND project_id = ?", inventoryID, projectID).First(&inv).Error; err != nil {
			return apperr.FromDB("inventory", err)
		}
		updates := patch.apply(&inv.Title, &inv.Description)
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.ProjectInventory{}).Where("id = ?", inv.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND project_id = ?", inventoryID, projectID).Delete(&model.ProjectInventory{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("inventory")
		}
		return tx.Where("inventory_id = ?", inventoryID).Delete(&model.InventoryField{}).Error
	})
}

func (r *inventoryRepo) GetField(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID) (*model.InventoryField, error) {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&model.ProjectInventory{}).Where("id = ? AND project_id = ?", inventoryID, projectID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.NotFound("inventory")
	}

	var f model.InventoryField
	if err := db.Preload("FieldTemplate").Where("id = ? AND inventory_id = ?", fieldID, inventoryID).First(&f).Error; err != nil {
		return nil, apperr.FromDB("field", err)
	}
	return &f, nil
}

// SaveFields loads the inventory inside a transaction, lets fn change field
// values, and writes back every field fn returns.
func (r *inventoryRepo) SaveFields(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fn func(inv *model.ProjectInventory) ([]*model.InventoryField, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findInventory(tx, projectID, inventoryID)
		if err != nil {
			return err
		}
		changed, err := fn(inv)
		if err != nil {
			return err
		}
		for _, f := range changed {
			err := tx.Model(f).
				Select("text_value", "number_value", "file_value", "password_value", "datetime_value").
				Updates(f).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func findInventory(db *gorm.DB, projectID uuid.UUID, inventoryID uuid.UUID) (*model.ProjectInventory, error) {
	var inv model.ProjectInventory
	err := db.Preload("Fields", orderedFields).
		Preload("Fields.FieldTemplate").
		Where("id = ? AND project_id = ?", inventoryID, projectID).
		First(&inv).Error
	if err != nil {
		return nil, apperr.FromDB("inventory", err)
	}
	return &inv, nil
}
