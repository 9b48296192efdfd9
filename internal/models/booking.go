package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientUserID uuid.UUID `gorm:"type:uuid;index" json:"client_user_id"`
	ClientUser   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ProfessionalID uuid.UUID    `gorm:"type:uuid;index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ServiceID uuid.UUID `gorm:"type:uuid;index" json:"service_id"`
	Service   Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartAt time.Time `gorm:"index" json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	Status string `gorm:"size:20;default:'draft';index" json:"status"`

	RescheduleClientCount int        `gorm:"default:0" json:"reschedule_client_count"`
	LastRescheduledAt     *time.Time `json:"last_rescheduled_at"`
	CanceledAt            *time.Time `json:"canceled_at"`
	ExpiredAt             *time.Time `json:"expired_at"`
	ConfirmedAt           *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
