package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCard       = "card"
	PaymentMethodMBWay      = "mb_way"
	PaymentMethodMultibanco = "multibanco"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
	PaymentStatusRefunded  = "refunded"
)

type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BookingID uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`
	Booking   Booking   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Method string  `gorm:"size:20;not null" json:"method"`
	Status string  `gorm:"size:20;default:'pending';index" json:"status"`
	Amount float64 `json:"amount"`

	// Referência Multibanco (apenas quando method = multibanco)
	ReferenceEntity string `gorm:"size:10" json:"reference_entity,omitempty"`
	ReferenceNumber string `gorm:"size:12" json:"reference_number,omitempty"`

	CheckoutURL string `gorm:"size:255" json:"checkout_url,omitempty"`

	ExpiresAt *time.Time `json:"expires_at"`

	Fees               float64 `json:"fees"`
	PlatformCommission float64 `json:"platform_commission"`
	NetToProfessional  float64 `json:"net_to_professional"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
