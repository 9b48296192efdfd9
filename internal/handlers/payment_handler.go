package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	ucPayment "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/payment"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/middleware"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db *gorm.DB

	initiate *ucPayment.Initiate
	settle   *ucPayment.Settle
}

func NewPaymentHandler(
	db *gorm.DB,
	initiate *ucPayment.Initiate,
	settle *ucPayment.Settle,
) *PaymentHandler {
	return &PaymentHandler{db: db, initiate: initiate, settle: settle}
}

// ======================================================
// REQUESTS
// ======================================================

type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Method    string `json:"method" binding:"required"`
}

type ConfirmPaymentRequest struct {
	Succeeded bool `json:"succeeded"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	p, err := h.initiate.Execute(c.Request.Context(), ucPayment.InitiateInput{
		BookingID: bookingID,
		Method:    req.Method,
		ActorID:   userID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, p)
}

// Confirm é o retorno do checkout simulado: liquida ou falha o pagamento
// pendente. Com um provedor real isto seria um webhook assinado.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if !h.canTouchPayment(c, paymentID) {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	p, err := h.settle.Execute(c.Request.Context(), paymentID, req.Succeeded)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, p)
}

// SimulatedCheckoutPage é o destino da URL de checkout: mostra o estado do
// pagamento e para onde enviar a confirmação simulada. Público, como seria a
// página hospedada de um provedor real.
func (h *PaymentHandler) SimulatedCheckoutPage(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var p models.Payment
	if err := h.db.First(&p, "id = ?", paymentID).Error; err != nil {
		httperr.NotFound(c, "payment_not_found", "Pagamento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id":  p.ID,
		"amount":      p.Amount,
		"method":      p.Method,
		"status":      p.Status,
		"expires_at":  p.ExpiresAt,
		"confirm_url": "/api/v1/payments/" + p.ID.String() + "/confirm",
	})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if !h.canTouchPayment(c, paymentID) {
		return
	}

	var p models.Payment
	if err := h.db.First(&p, "id = ?", paymentID).Error; err != nil {
		httperr.NotFound(c, "payment_not_found", "Pagamento não encontrado.")
		return
	}

	httpresp.OK(c, p)
}

// dono da reserva ou admin; escreve a resposta de erro quando nega
func (h *PaymentHandler) canTouchPayment(c *gin.Context, paymentID uuid.UUID) bool {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var p models.Payment
	if err := h.db.First(&p, "id = ?", paymentID).Error; err != nil {
		httperr.NotFound(c, "payment_not_found", "Pagamento não encontrado.")
		return false
	}

	if role == models.RoleSpaceAdmin || role == models.RoleMasterAdmin {
		return true
	}

	var b models.Booking
	if err := h.db.First(&b, "id = ?", p.BookingID).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
		return false
	}

	if b.ClientUserID != userID {
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta operação.")
		return false
	}

	return true
}
