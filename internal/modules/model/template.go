package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StepTemplate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Icon         string    `gorm:"type:varchar(50);not null;default:''" json:"icon"`
	Description  string    `gorm:"type:text;not null;default:''" json:"description"`
	DefaultOrder int       `gorm:"not null;default:0;index" json:"default_order"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// StepTemplate <-> TaskTemplate
	Tasks []TaskTemplate `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"tasks"`
}

func (StepTemplate) TableName() string { return "step_templates" }

func (t *StepTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

type TaskTemplate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StepTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"step_template_id"`
	Title          string    `gorm:"type:varchar(200);not null" json:"title"`
	Order          int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	InfoText       string    `gorm:"type:text;not null;default:''" json:"info_text"`
	HelpURL        string    `gorm:"type:varchar(500);not null;default:''" json:"help_url"`
	WorkURL        string    `gorm:"type:varchar(500);not null;default:''" json:"work_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TaskTemplate) TableName() string { return "task_templates" }

func (t *TaskTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

type InventoryTemplate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Icon         string    `gorm:"type:varchar(50);not null;default:''" json:"icon"`
	Description  string    `gorm:"type:text;not null;default:''" json:"description"`
	DefaultOrder int       `gorm:"not null;default:0;index" json:"default_order"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// InventoryTemplate <-> TemplateField
	Fields []TemplateField `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"fields"`
}

func (InventoryTemplate) TableName() string { return "inventory_templates" }

func (t *InventoryTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

type TemplateField struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_template_field,priority:1" json:"template_id"`
	GroupName  string    `gorm:"type:varchar(100);not null;default:'';uniqueIndex:uq_template_field,priority:2" json:"group_name"`
	GroupOrder int       `gorm:"not null;default:0" json:"group_order"`
	FieldName  string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_template_field,priority:3" json:"field_name"`
	FieldOrder int       `gorm:"not null;default:0" json:"field_order"`
	FieldType  FieldType `gorm:"type:varchar(20);not null;default:'text'" json:"field_type"`
	IsSecret   bool      `gorm:"not null;default:false" json:"is_secret"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
}

func (TemplateField) TableName() string { return "template_fields" }

func (f *TemplateField) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// BeforeSave normalises the group name so fields group consistently.
func (f *TemplateField) BeforeSave(*gorm.DB) error {
	f.GroupName = strings.ToUpper(strings.TrimSpace(f.GroupName))
	return nil
}

// TemplateSyncLog records one propagation of a step template into project steps.
type TemplateSyncLog struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	StepTemplateID uuid.UUID         `gorm:"type:uuid;not null;index" json:"step_template_id"`
	TriggeredByID  *uuid.UUID        `gorm:"type:uuid" json:"triggered_by_id"`
	StepsScanned   int               `gorm:"not null;default:0" json:"steps_scanned"`
	TasksRemoved   int64             `gorm:"not null;default:0" json:"tasks_removed"`
	TasksAdded     int               `gorm:"not null;default:0" json:"tasks_added"`
	Details        datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"details"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TemplateSyncLog) TableName() string { return "template_sync_logs" }

func (l *TemplateSyncLog) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
