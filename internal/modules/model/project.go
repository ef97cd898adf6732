package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(200);not null" json:"name"`
	Description string        `gorm:"type:text;not null;default:''" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'active';check:status IN ('active','completed','archived');index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> ProjectStep
	Steps []ProjectStep `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"steps,omitempty"`

	// Project <-> ProjectInventory
	Inventories []ProjectInventory `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"inventories,omitempty"`

	// Project <-> ProjectPermission
	Permissions []ProjectPermission `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"permissions,omitempty"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = ProjectActive
	}
	return nil
}

// NextStatus returns the status the project should hold given its task counts.
// Archived projects never move. A project without tasks counts as completed.
func (p *Project) NextStatus(completed, total int64) ProjectStatus {
	if p.Status != ProjectActive && p.Status != ProjectCompleted {
		return p.Status
	}
	if completed == total {
		return ProjectCompleted
	}
	return ProjectActive
}

// ProjectCompletion formats the share of completed tasks across a whole project.
func ProjectCompletion(completed, total int64) string {
	if total == 0 {
		return "100%"
	}
	return FormatPercentage(completed, total)
}

// FormatPercentage renders completed/total as a rounded integer percentage, e.g. "75%".
func FormatPercentage(completed, total int64) string {
	return fmt.Sprintf("%.0f%%", float64(completed)/float64(total)*100)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
