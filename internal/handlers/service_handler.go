package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/middleware"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// ServiceHandler gerencia o catálogo do próprio profissional autenticado.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	DurationMin int     `json:"duration_min" binding:"required,min=5"`
	Price       float64 `json:"price" binding:"required,min=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *ServiceHandler) professionalFromContext(c *gin.Context) (*models.Professional, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var pro models.Professional
	if err := h.db.Where("user_id = ?", userID).First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}
	return &pro, true
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ServiceHandler) ListMine(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	service := models.Service{
		ProfessionalID: pro.ID,
		Name:           req.Name,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		Active:         true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND professional_id = ?", serviceID, pro.ID).
		First(&service).Error; err != nil {

		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 5 {
			httperr.BadRequest(c, "invalid_duration", "Duração mínima de 5 minutos.")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	httpresp.OK(c, service)
}

// Delete desativa o serviço em vez de removê-lo: reservas antigas continuam
// apontando para ele.
func (h *ServiceHandler) Delete(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	result := h.db.Model(&models.Service{}).
		Where("id = ? AND professional_id = ?", serviceID, pro.ID).
		Update("active", false)

	if result.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Erro ao remover serviço.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
