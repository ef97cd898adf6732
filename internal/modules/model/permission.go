package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleRead  Role = "read"
	RoleEdit  Role = "edit"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleRead, RoleEdit, RoleAdmin:
		return true
	}
	return false
}

// Roles is the cumulative role set of a user on a project, always listed read, edit, admin.
type Roles []Role

func (rs Roles) Has(r Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

type AccessLevel string

const (
	LevelNone  AccessLevel = ""
	LevelRead  AccessLevel = "read"
	LevelWrite AccessLevel = "write"
	LevelAdmin AccessLevel = "admin"
)

type ProjectPermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_permission_user_project,priority:1" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_permission_user_project,priority:2;index" json:"project_id"`
	CanView   bool      `gorm:"not null;default:false" json:"can_view"`
	CanEdit   bool      `gorm:"not null;default:false" json:"can_edit"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// ProjectPermission <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"user,omitempty"`
}

func (ProjectPermission) TableName() string { return "project_permissions" }

func (p *ProjectPermission) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Roles ORs together the set each flag implies. A nil row grants nothing.
func (p *ProjectPermission) Roles() Roles {
	if p == nil {
		return Roles{}
	}
	var read, edit, admin bool
	if p.IsAdmin {
		read, edit, admin = true, true, true
	}
	if p.CanEdit {
		read, edit = true, true
	}
	if p.CanView {
		read = true
	}

	out := Roles{}
	if read {
		out = append(out, RoleRead)
	}
	if edit {
		out = append(out, RoleEdit)
	}
	if admin {
		out = append(out, RoleAdmin)
	}
	return out
}

// Toggle flips one role. Removing a role also clears the roles above it,
// granting one also grants the roles below it.
func (p *ProjectPermission) Toggle(r Role) error {
	switch r {
	case RoleRead:
		if p.CanView {
			p.CanView, p.CanEdit, p.IsAdmin = false, false, false
		} else {
			p.CanView = true
		}
	case RoleEdit:
		if p.CanEdit {
			p.CanEdit, p.IsAdmin = false, false
		} else {
			p.CanView, p.CanEdit = true, true
		}
	case RoleAdmin:
		if p.IsAdmin {
			p.IsAdmin = false
		} else {
			p.CanView, p.CanEdit, p.IsAdmin = true, true, true
		}
	default:
		return fmt.Errorf("unknown role %q", r)
	}
	return nil
}
