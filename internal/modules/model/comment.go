package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskComment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectTaskID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_task_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CommentText   string         `gorm:"type:text;not null" json:"comment_text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" swaggertype:"string" json:"deleted_at"`

	// TaskComment <-> ProjectTask
	ProjectTask *ProjectTask `gorm:"foreignKey:ProjectTaskID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// TaskComment <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"user,omitempty"`
}

func (TaskComment) TableName() string { return "task_comments" }

func (c *TaskComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
