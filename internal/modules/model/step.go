package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StepNotStarted = "Not Started"
	StepInProgress = "In Progress"
	StepCompleted  = "Completed"
)

type ProjectStep struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_step_project_order,priority:1" json:"project_id"`
	StepTemplateID *uuid.UUID `gorm:"type:uuid;index" json:"step_template_id"`
	Title          string     `gorm:"type:varchar(200);not null" json:"title"`
	Description    string     `gorm:"type:text;not null;default:''" json:"description"`
	Icon           string     `gorm:"type:varchar(50);not null;default:''" json:"icon"`
	Order          int        `gorm:"column:sort_order;not null;uniqueIndex:uq_step_project_order,priority:2" json:"order"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// ProjectStep <-> StepTemplate
	StepTemplate *StepTemplate `gorm:"foreignKey:StepTemplateID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`

	// ProjectStep <-> ProjectTask
	Tasks []ProjectTask `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"tasks"`
}

func (ProjectStep) TableName() string { return "project_steps" }

func (s *ProjectStep) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Counts returns how many of the loaded tasks are done or not applicable, and the total.
func (s *ProjectStep) Counts() (completed, total int) {
	for _, t := range s.Tasks {
		if t.Status.IsComplete() {
			completed++
		}
	}
	return completed, len(s.Tasks)
}

func (s *ProjectStep) Status() string {
	completed, total := s.Counts()
	switch {
	case total == 0 || completed == 0:
		return StepNotStarted
	case completed == total:
		return StepCompleted
	default:
		return StepInProgress
	}
}

func (s *ProjectStep) ProgressText() string {
	completed, total := s.Counts()
	switch total {
	case 0:
		return "No tasks"
	case 1:
		return fmt.Sprintf("%d of %d task", completed, total)
	default:
		return fmt.Sprintf("%d of %d tasks", completed, total)
	}
}

// CompletionPercentage is the integer 0 for a step without tasks and a
// formatted string such as "50%" otherwise. Callers rely on the difference.
func (s *ProjectStep) CompletionPercentage() any {
	completed, total := s.Counts()
	if total == 0 {
		return 0
	}
	return FormatPercentage(int64(completed), int64(total))
}
