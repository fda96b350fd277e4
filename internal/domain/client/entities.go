package client

import (
	"time"

	"gorm.io/gorm"
)

type Client struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	ClientID     string         `gorm:"size:32;uniqueIndex:ux_clients_client_id" json:"client_id"`
	FullName     string         `gorm:"size:160" json:"full_name"`
	CPF          string         `gorm:"size:11;uniqueIndex:ux_clients_cpf" json:"cpf"`
	Phone        string         `gorm:"size:20" json:"phone"`
	Email        string         `gorm:"size:160;index:idx_clients_email" json:"email"`
	PasswordHash string         `gorm:"size:80" json:"-"`
	LibraryID    uint64         `gorm:"index:idx_clients_library" json:"library_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Client) TableName() string { return "clients" }
