package user

import (
	"time"

	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/access"
)

type User struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name         string         `gorm:"size:120" json:"name"`
	Email        string         `gorm:"size:160;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string         `gorm:"size:80" json:"-"`
	Role         access.Role    `gorm:"size:20;default:'librarian'" json:"role"`
	LibraryID    uint64         `gorm:"index:idx_users_library" json:"library_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
