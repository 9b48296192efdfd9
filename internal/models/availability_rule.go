package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Interval é um intervalo de expediente em hora local ("HH:MM").
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityRule é o gabarito semanal de expediente do profissional.
// Invariante: os intervalos de um mesmo (profissional, weekday) não se sobrepõem.
type AvailabilityRule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProfessionalID uuid.UUID    `gorm:"type:uuid;index:idx_rule_professional_weekday,unique" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// 0 = domingo .. 6 = sábado
	Weekday int `gorm:"index:idx_rule_professional_weekday,unique" json:"weekday"`

	Intervals datatypes.JSONType[[]Interval] `json:"intervals"`

	Timezone string `gorm:"size:64;default:'Europe/Lisbon'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AvailabilityRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
