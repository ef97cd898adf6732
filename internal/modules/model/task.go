package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
	TaskNA      TaskStatus = "na"
)

// IsComplete reports whether the status counts toward progress.
func (s TaskStatus) IsComplete() bool {
	return s == TaskDone || s == TaskNA
}

type ProjectTask struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectStepID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_task_step_order,priority:1" json:"project_step_id"`
	TaskTemplateID  *uuid.UUID `gorm:"type:uuid;index" json:"task_template_id"`
	Title           string     `gorm:"type:varchar(200);not null" json:"title"`
	InfoText        string     `gorm:"type:text;not null;default:''" json:"info_text"`
	HelpURL         string     `gorm:"type:varchar(500);not null;default:''" json:"help_url"`
	WorkURL         string     `gorm:"type:varchar(500);not null;default:''" json:"work_url"`
	Order           int        `gorm:"column:sort_order;not null;uniqueIndex:uq_task_step_order,priority:2" json:"order"`
	Status          TaskStatus `gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','done','na')" json:"status"`
	CompletedByID   *uuid.UUID `gorm:"type:uuid" json:"completed_by_id"`
	CompletedAt     *time.Time `json:"completed_at"`
	ManuallyCreated bool       `gorm:"not null;default:false" json:"manually_created"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// ProjectTask <-> TaskTemplate
	TaskTemplate *TaskTemplate `gorm:"foreignKey:TaskTemplateID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`

	// ProjectTask <-> User
	CompletedBy *User `gorm:"foreignKey:CompletedByID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"completed_by,omitempty"`
}

func (ProjectTask) TableName() string { return "project_tasks" }

func (t *ProjectTask) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	if t.Status == "" {
		t.Status = TaskPending
	}
	return nil
}

// NewTaskFromTemplate copies the template's content into a pending task at the given order.
func NewTaskFromTemplate(stepID uuid.UUID, tt TaskTemplate, order int) ProjectTask {
	templateID := tt.ID
	return ProjectTask{
		ProjectStepID:  stepID,
		TaskTemplateID: &templateID,
		Title:          tt.Title,
		InfoText:       tt.InfoText,
		HelpURL:        tt.HelpURL,
		WorkURL:        tt.WorkURL,
		Order:          order,
		Status:         TaskPending,
	}
}
