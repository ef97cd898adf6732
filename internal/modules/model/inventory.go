package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldURL      FieldType = "url"
	FieldFile     FieldType = "file"
	FieldPassword FieldType = "password"
	FieldDatetime FieldType = "datetime"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldURL, FieldFile, FieldPassword, FieldDatetime:
		return true
	}
	return false
}

type ProjectInventory struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_inventory_project_order,priority:1" json:"project_id"`
	InventoryTemplateID *uuid.UUID `gorm:"type:uuid;index" json:"inventory_template_id"`
	Title               string     `gorm:"type:varchar(200);not null" json:"title"`
	Description         string     `gorm:"type:text;not null;default:''" json:"description"`
	Icon                string     `gorm:"type:varchar(50);not null;default:''" json:"icon"`
	Order               int        `gorm:"column:sort_order;not null;uniqueIndex:uq_inventory_project_order,priority:2" json:"order"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// ProjectInventory <-> InventoryTemplate
	InventoryTemplate *InventoryTemplate `gorm:"foreignKey:InventoryTemplateID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`

	// ProjectInventory <-> InventoryField
	Fields []InventoryField `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"fields,omitempty"`
}

func (ProjectInventory) TableName() string { return "project_inventories" }

func (i *ProjectInventory) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// InventoryField holds one typed value. Only the slot matching FieldType is meaningful.
type InventoryField struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"inventory_id"`
	FieldTemplateID *uuid.UUID `gorm:"type:uuid;index" json:"field_template_id"`
	GroupName       string     `gorm:"type:varchar(100);not null;default:''" json:"group_name"`
	GroupOrder      int        `gorm:"not null;default:0" json:"group_order"`
	FieldName       string     `gorm:"type:varchar(100);not null" json:"field_name"`
	FieldOrder      int        `gorm:"not null;default:0" json:"field_order"`
	FieldType       FieldType  `gorm:"type:varchar(20);not null;default:'text'" json:"field_type"`

	TextValue     string     `gorm:"type:text;not null;default:''" json:"-"`
	NumberValue   *float64   `json:"-"`
	FileValue     string     `gorm:"type:text;not null;default:''" json:"-"`
	PasswordValue string     `gorm:"type:text;not null;default:''" json:"-"`
	DatetimeValue *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// InventoryField <-> TemplateField
	FieldTemplate *TemplateField `gorm:"foreignKey:FieldTemplateID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (InventoryField) TableName() string { return "inventory_fields" }

func (f *InventoryField) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// IsSecret reports whether the originating template marks the field secret.
// FieldTemplate must be preloaded.
func (f *InventoryField) IsSecret() bool {
	return f.FieldTemplate != nil && f.FieldTemplate.IsSecret
}

// Value returns the slot selected by FieldType. Password values come back
// still encrypted.
func (f *InventoryField) Value() any {
	switch f.FieldType {
	case FieldNumber:
		if f.NumberValue == nil {
			return nil
		}
		return *f.NumberValue
	case FieldFile:
		return f.FileValue
	case FieldPassword:
		return f.PasswordValue
	case FieldDatetime:
		if f.DatetimeValue == nil {
			return nil
		}
		return *f.DatetimeValue
	default:
		return f.TextValue
	}
}

func (f *InventoryField) HasValue() bool {
	switch v := f.Value().(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}

// NewFieldFromTemplate copies a template field's layout into an empty inventory field.
func NewFieldFromTemplate(inventoryID uuid.UUID, tf TemplateField) InventoryField {
	templateID := tf.ID
	return InventoryField{
		InventoryID:     inventoryID,
		FieldTemplateID: &templateID,
		GroupName:       tf.GroupName,
		GroupOrder:      tf.GroupOrder,
		FieldName:       tf.FieldName,
		FieldOrder:      tf.FieldOrder,
		FieldType:       tf.FieldType,
	}
}
