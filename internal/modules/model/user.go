package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity handed over by the authentication layer. Only the
// profile names change after creation.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(254);index" json:"email"`
	FirstName string    `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName  string    `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
