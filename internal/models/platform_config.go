package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlatformConfig é a configuração global da plataforma (linha única).
type PlatformConfig struct {
	ID uint `gorm:"primaryKey" json:"-"`

	MinimumDepositEUR     float64 `gorm:"default:5" json:"minimum_deposit_eur"`
	PlatformCommissionEUR float64 `gorm:"default:1" json:"platform_commission_eur"`

	PaymentMethodsEnabled datatypes.JSONType[[]string] `json:"payment_methods_enabled"`

	// Antecedência mínima para criar uma reserva
	MinAdvanceMinutes int `gorm:"default:120" json:"min_advance_minutes"`

	// Política de reagendamento pelo cliente
	RescheduleMinHoursForClient int `gorm:"default:24" json:"reschedule_min_hours_for_client"`
	RescheduleClientMaxTimes    int `gorm:"default:1" json:"reschedule_client_max_times"`

	// Referências Multibanco expiram antes do início da sessão
	MultibancoPreAppointmentExpireMinutes int `gorm:"default:60" json:"multibanco_pre_appointment_expire_minutes"`

	// Tempo de retenção do slot com pagamento pendente (card / MB WAY)
	HoldMinutesOnSession int `gorm:"default:10" json:"hold_minutes_on_session"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func DefaultPlatformConfig() *PlatformConfig {
	return &PlatformConfig{
		MinimumDepositEUR:     5,
		PlatformCommissionEUR: 1,
		PaymentMethodsEnabled: datatypes.NewJSONType([]string{
			PaymentMethodCard,
			PaymentMethodMBWay,
			PaymentMethodMultibanco,
		}),
		MinAdvanceMinutes:                     120,
		RescheduleMinHoursForClient:           24,
		RescheduleClientMaxTimes:              1,
		MultibancoPreAppointmentExpireMinutes: 60,
		HoldMinutesOnSession:                  10,
	}
}
