package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ConfigHandler expõe a configuração global da plataforma (linha única,
// escrita restrita ao master_admin).
type ConfigHandler struct {
	db *gorm.DB
}

func NewConfigHandler(db *gorm.DB) *ConfigHandler {
	return &ConfigHandler{db: db}
}

type UpdateConfigRequest struct {
	MinimumDepositEUR     *float64 `json:"minimum_deposit_eur"`
	PlatformCommissionEUR *float64 `json:"platform_commission_eur"`

	PaymentMethodsEnabled *[]string `json:"payment_methods_enabled"`

	MinAdvanceMinutes           *int `json:"min_advance_minutes"`
	RescheduleMinHoursForClient *int `json:"reschedule_min_hours_for_client"`
	RescheduleClientMaxTimes    *int `json:"reschedule_client_max_times"`

	MultibancoPreAppointmentExpireMinutes *int `json:"multibanco_pre_appointment_expire_minutes"`
	HoldMinutesOnSession                  *int `json:"hold_minutes_on_session"`
}

func (h *ConfigHandler) Get(c *gin.Context) {
	var cfg models.PlatformConfig
	if err := h.db.First(&cfg).Error; err != nil {
		httperr.Internal(c, "failed_to_get_config", "Erro ao buscar configuração.")
		return
	}

	httpresp.OK(c, cfg)
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var cfg models.PlatformConfig
	if err := h.db.First(&cfg).Error; err != nil {
		httperr.Internal(c, "failed_to_get_config", "Erro ao buscar configuração.")
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.MinimumDepositEUR != nil {
		cfg.MinimumDepositEUR = *req.MinimumDepositEUR
	}
	if req.PlatformCommissionEUR != nil {
		cfg.PlatformCommissionEUR = *req.PlatformCommissionEUR
	}
	if req.PaymentMethodsEnabled != nil {
		for _, m := range *req.PaymentMethodsEnabled {
			if m != models.PaymentMethodCard &&
				m != models.PaymentMethodMBWay &&
				m != models.PaymentMethodMultibanco {
				httperr.BadRequest(c, "invalid_payment_method", "Método de pagamento inválido.")
				return
			}
		}
		cfg.PaymentMethodsEnabled = datatypes.NewJSONType(*req.PaymentMethodsEnabled)
	}
	if req.MinAdvanceMinutes != nil {
		cfg.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.RescheduleMinHoursForClient != nil {
		cfg.RescheduleMinHoursForClient = *req.RescheduleMinHoursForClient
	}
	if req.RescheduleClientMaxTimes != nil {
		cfg.RescheduleClientMaxTimes = *req.RescheduleClientMaxTimes
	}
	if req.MultibancoPreAppointmentExpireMinutes != nil {
		cfg.MultibancoPreAppointmentExpireMinutes = *req.MultibancoPreAppointmentExpireMinutes
	}
	if req.HoldMinutesOnSession != nil {
		cfg.HoldMinutesOnSession = *req.HoldMinutesOnSession
	}

	if err := h.db.Save(&cfg).Error; err != nil {
		httperr.Internal(c, "failed_to_save_config", "Erro ao salvar configuração.")
		return
	}

	httpresp.OK(c, cfg)
}
