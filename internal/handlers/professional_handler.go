package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	ucBooking "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/booking"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

var errInvalidWindow = errors.New("janela de disponibilidade inválida")

// ======================================================
// HANDLER
// ======================================================

// ProfessionalHandler expõe a vitrine pública: profissionais, seus
// serviços ativos e a grade de horários livres.
type ProfessionalHandler struct {
	db           *gorm.DB
	availability *ucBooking.GetAvailability
}

func NewProfessionalHandler(
	db *gorm.DB,
	availability *ucBooking.GetAvailability,
) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, availability: availability}
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ProfessionalHandler) List(c *gin.Context) {
	var pros []models.Professional
	if err := h.db.Order("name ASC").Find(&pros).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, pros)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	proID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var pro models.Professional
	if err := h.db.First(&pro, "id = ?", proID).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	httpresp.OK(c, pro)
}

func (h *ProfessionalHandler) ListServices(c *gin.Context) {
	proID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var services []models.Service
	if err := h.db.
		Where("professional_id = ? AND active = ?", proID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

// Availability devolve os slots livres do profissional para um serviço
// dentro da janela pedida. Endpoint público: o cliente escolhe o horário
// antes mesmo de ter conta.
func (h *ProfessionalHandler) Availability(c *gin.Context) {
	proID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "service_id obrigatório.")
		return
	}

	var pro models.Professional
	if err := h.db.First(&pro, "id = ?", proID).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	from, to, err := parseAvailabilityWindow(&pro, c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_range", "Intervalo de datas inválido.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucBooking.GetAvailabilityInput{
		ProfessionalID: proID,
		ServiceID:      serviceID,
		From:           from,
		To:             to,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// parseAvailabilityWindow aceita datas ("2026-09-01", janela de dias
// inteiros no fuso do profissional) ou instantes RFC3339.
func parseAvailabilityWindow(
	pro *models.Professional,
	fromStr string,
	toStr string,
) (time.Time, time.Time, error) {

	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errInvalidWindow
	}

	if from, err := parseDateInProfessional(pro, fromStr); err == nil {
		to, err := parseDateInProfessional(pro, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// "to" é inclusivo quando vem como data
		return from, to.AddDate(0, 0, 1), nil
	}

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
