package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	ucBooking "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/booking"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/middleware"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db *gorm.DB

	reserve       *ucBooking.Reserve
	cancel        *ucBooking.Cancel
	reschedule    *ucBooking.Reschedule
	rescheduleURL *ucBooking.RescheduleLink
}

func NewBookingHandler(
	db *gorm.DB,
	reserve *ucBooking.Reserve,
	cancel *ucBooking.Cancel,
	reschedule *ucBooking.Reschedule,
	rescheduleURL *ucBooking.RescheduleLink,
) *BookingHandler {
	return &BookingHandler{
		db:            db,
		reserve:       reserve,
		cancel:        cancel,
		reschedule:    reschedule,
		rescheduleURL: rescheduleURL,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ProfessionalID string `json:"professional_id" binding:"required"`
	ServiceID      string `json:"service_id" binding:"required"`
	StartAt        string `json:"start_at" binding:"required"`
}

type RescheduleBookingRequest struct {
	NewStartAt string  `json:"new_start_at" binding:"required"`
	ServiceID  *string `json:"service_id"`
}

// ======================================================
// HELPERS
// ======================================================

func actorFromContext(c *gin.Context) ucBooking.Actor {
	return ucBooking.Actor{
		UserID: c.MustGet(middleware.ContextUserID).(uuid.UUID),
		Role:   c.MustGet(middleware.ContextUserRole).(string),
	}
}

func (h *BookingHandler) loadProfessional(id uuid.UUID) *models.Professional {
	var pro models.Professional
	if err := h.db.First(&pro, "id = ?", id).Error; err != nil {
		return nil
	}
	return &pro
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	proID, err1 := uuid.Parse(req.ProfessionalID)
	serviceID, err2 := uuid.Parse(req.ServiceID)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	startAt, err := parseInstant(h.loadProfessional(proID), req.StartAt)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	b, err := h.reserve.Execute(c.Request.Context(), ucBooking.ReserveInput{
		ClientUserID:   actor.UserID,
		ProfessionalID: proID,
		ServiceID:      serviceID,
		StartAt:        startAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// LIST / GET
// ======================================================

// List devolve as reservas visíveis ao ator: cliente vê as suas,
// profissional vê a sua agenda, admin vê tudo.
func (h *BookingHandler) List(c *gin.Context) {
	actor := actorFromContext(c)

	query := h.db.Model(&models.Booking{}).
		Preload("Professional").
		Preload("Service")

	switch actor.Role {
	case models.RoleClient:
		query = query.Where("client_user_id = ?", actor.UserID)

	case models.RoleProfessional:
		var pro models.Professional
		if err := h.db.Where("user_id = ?", actor.UserID).First(&pro).Error; err != nil {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return
		}
		query = query.Where("professional_id = ?", pro.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("start_at >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_at < ?", to)
	}

	var bookings []models.Booking
	if err := query.Order("start_at ASC").Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar reservas.")
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	actor := actorFromContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var b models.Booking
	if err := h.db.
		Preload("Professional").
		Preload("Service").
		First(&b, "id = ?", bookingID).Error; err != nil {

		httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
		return
	}

	if !h.canSee(actor, &b) {
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta operação.")
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) canSee(actor ucBooking.Actor, b *models.Booking) bool {
	if actor.Role == models.RoleSpaceAdmin || actor.Role == models.RoleMasterAdmin {
		return true
	}
	if b.ClientUserID == actor.UserID {
		return true
	}
	if actor.Role == models.RoleProfessional {
		var pro models.Professional
		if err := h.db.Where("user_id = ?", actor.UserID).First(&pro).Error; err == nil {
			return pro.ID == b.ProfessionalID
		}
	}
	return false
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	actor := actorFromContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), actor, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	actor := actorFromContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	in, err := h.buildRescheduleInput(bookingID, req)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	b, err := h.reschedule.Execute(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) buildRescheduleInput(
	bookingID uuid.UUID,
	req RescheduleBookingRequest,
) (ucBooking.RescheduleInput, error) {

	in := ucBooking.RescheduleInput{BookingID: bookingID}

	var pro *models.Professional
	var b models.Booking
	if err := h.db.First(&b, "id = ?", bookingID).Error; err == nil {
		pro = h.loadProfessional(b.ProfessionalID)
	}

	newStart, err := parseInstant(pro, req.NewStartAt)
	if err != nil {
		return in, err
	}
	in.NewStartAt = newStart

	if req.ServiceID != nil {
		serviceID, err := uuid.Parse(*req.ServiceID)
		if err != nil {
			return in, err
		}
		in.ServiceID = &serviceID
	}

	return in, nil
}

// ======================================================
// LINK DE REAGENDAMENTO
// ======================================================

func (h *BookingHandler) GenerateRescheduleLink(c *gin.Context) {
	actor := actorFromContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	out, err := h.rescheduleURL.Generate(c.Request.Context(), actor, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, out)
}

// ResolveRescheduleLink abre o link sem sessão: devolve a reserva e os
// dados necessários para o cliente escolher um novo horário.
func (h *BookingHandler) ResolveRescheduleLink(c *gin.Context) {
	token := c.Param("token")

	b, err := h.rescheduleURL.Resolve(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	var service models.Service
	_ = h.db.First(&service, "id = ?", b.ServiceID).Error

	httpresp.OK(c, gin.H{
		"booking": b,
		"service": service,
	})
}

// ConsumeRescheduleLink reagenda via link sem sessão. O ator é o cliente
// dono da reserva; o token só sai do redis se o reagendamento funcionar.
func (h *BookingHandler) ConsumeRescheduleLink(c *gin.Context) {
	token := c.Param("token")

	b, err := h.rescheduleURL.Resolve(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	in, err := h.buildRescheduleInput(b.ID, req)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	actor := ucBooking.Actor{UserID: b.ClientUserID, Role: models.RoleClient}

	updated, err := h.reschedule.Execute(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.rescheduleURL.Consume(c.Request.Context(), token); err != nil {
		// o reagendamento já foi gravado; o token expira sozinho pelo TTL
		logWarnTokenRevoke(err)
	}

	httpresp.OK(c, updated)
}
