package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AvailabilityException é uma exceção pontual de calendário: ou o dia está
// fechado, ou os intervalos substituem por completo a regra semanal daquela
// data. Invariante: no máximo um registro por (profissional, data).
type AvailabilityException struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProfessionalID uuid.UUID    `gorm:"type:uuid;index:idx_exception_professional_date,unique" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Data de calendário, sem hora (YYYY-MM-DD).
	Date string `gorm:"size:10;index:idx_exception_professional_date,unique" json:"date"`

	Closed    bool                           `json:"closed"`
	Intervals datatypes.JSONType[[]Interval] `json:"intervals"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *AvailabilityException) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
