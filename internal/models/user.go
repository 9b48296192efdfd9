package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===============================
// Papéis (hierarquia crescente)
// ===============================

const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleSpaceAdmin   = "space_admin"
	RoleMasterAdmin  = "master_admin"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'client'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
