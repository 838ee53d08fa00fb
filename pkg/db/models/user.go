package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/znforge/pos-backend/pkg/enums"
)

// User is a staff account scoped to one business. Username and email are
// unique per business, not globally.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	BusinessID   uuid.UUID      `gorm:"column:business_id;type:uuid;not null;uniqueIndex:uq_users_business_username;uniqueIndex:uq_users_business_email"`
	Username     string         `gorm:"column:username;not null;uniqueIndex:uq_users_business_username"`
	Email        string         `gorm:"column:email;not null;uniqueIndex:uq_users_business_email"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'employee'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
