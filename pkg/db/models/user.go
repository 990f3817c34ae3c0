package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pratm1304/FouShack/pkg/enums"
	"gorm.io/gorm"
)

// User is a bakery staff member who can sign in to the back office.
type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	DisplayName  string          `gorm:"column:display_name;not null"`
	Role         enums.StaffRole `gorm:"column:role;type:text;not null;default:staff"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
