package ds

import (
	"time"

	"gorm.io/gorm"
)

// Papéis de acesso ao sistema
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleDriver  = "driver"
)

// User - usuário do sistema (acesso à API)
type User struct {
	ID        int            `json:"id" gorm:"primaryKey"`
	UUID      string         `json:"uuid" gorm:"size:36;uniqueIndex"`
	Login     string         `json:"login" gorm:"size:50;uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"size:100;not null"`
	Password  string         `json:"password,omitempty" gorm:"size:100;not null"`
	Name      string         `json:"name" gorm:"size:100"`
	Phone     string         `json:"phone" gorm:"size:20"`
	Role      string         `json:"role" gorm:"size:20;not null;default:driver"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
