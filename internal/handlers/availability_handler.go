package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httpresp"
	"github.com/andersonraduan/reserva-rapida-pt/internal/middleware"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

// AvailabilityHandler gerencia o calendário do profissional autenticado:
// gabarito semanal e exceções pontuais.
type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type RuleDayConfig struct {
	Weekday   int               `json:"weekday" binding:"min=0,max=6"`
	Intervals []models.Interval `json:"intervals" binding:"required"`
}

type RulesUpdateRequest struct {
	Timezone string          `json:"timezone"`
	Days     []RuleDayConfig `json:"days" binding:"required"`
}

type CreateExceptionRequest struct {
	Date      string            `json:"date" binding:"required"`
	Closed    bool              `json:"closed"`
	Intervals []models.Interval `json:"intervals"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AvailabilityHandler) professionalFromContext(c *gin.Context) (*models.Professional, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var pro models.Professional
	if err := h.db.Where("user_id = ?", userID).First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}
	return &pro, true
}

// normalizeIntervals valida os intervalos ("HH:MM", início < fim, sem
// sobreposição entre si) e devolve a forma canônica, ordenada por início.
// É a forma ordenada que vai para o banco: listagens e o motor de
// disponibilidade nunca veem intervalos fora de ordem.
func normalizeIntervals(intervals []models.Interval) ([]models.Interval, bool) {
	parse := func(hm string) (int, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return 0, false
		}
		return t.Hour()*60 + t.Minute(), true
	}

	type span struct {
		start, end int
		iv         models.Interval
	}
	spans := make([]span, 0, len(intervals))

	for _, iv := range intervals {
		start, ok1 := parse(iv.Start)
		end, ok2 := parse(iv.End)
		if !ok1 || !ok2 || start >= end {
			return nil, false
		}
		spans = append(spans, span{start, end, iv})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := make([]models.Interval, 0, len(spans))
	for i, s := range spans {
		if i > 0 && s.start < spans[i-1].end {
			return nil, false
		}
		out = append(out, s.iv)
	}
	return out, true
}

// ======================================================
// GABARITO SEMANAL
// ======================================================

func (h *AvailabilityHandler) GetRules(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	var rules []models.AvailabilityRule
	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Order("weekday ASC").
		Find(&rules).Error; err != nil {

		httperr.Internal(c, "failed_to_get_rules", "Erro ao buscar expediente.")
		return
	}

	httpresp.List(c, rules)
}

// UpdateRules substitui o gabarito semanal inteiro de uma vez. Um weekday
// ausente do payload fica sem expediente.
func (h *AvailabilityHandler) UpdateRules(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	var req RulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = pro.Timezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	seen := make(map[int]bool, len(req.Days))
	for i, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Weekday repetido.")
			return
		}
		seen[d.Weekday] = true

		normalized, ok := normalizeIntervals(d.Intervals)
		if !ok {
			httperr.BadRequest(c, "invalid_intervals", "Intervalos inválidos.")
			return
		}
		req.Days[i].Intervals = normalized
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", pro.ID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		for _, d := range req.Days {
			if len(d.Intervals) == 0 {
				continue
			}
			rule := models.AvailabilityRule{
				ProfessionalID: pro.ID,
				Weekday:        d.Weekday,
				Intervals:      datatypes.NewJSONType(d.Intervals),
				Timezone:       tz,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_rules", "Erro ao salvar expediente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// EXCEÇÕES
// ======================================================

func (h *AvailabilityHandler) ListExceptions(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	query := h.db.Where("professional_id = ?", pro.ID)

	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var exceptions []models.AvailabilityException
	if err := query.Order("date ASC").Find(&exceptions).Error; err != nil {
		httperr.Internal(c, "failed_to_list_exceptions", "Erro ao listar exceções.")
		return
	}

	httpresp.List(c, exceptions)
}

// CreateException grava (ou substitui) a exceção da data. Dia fechado
// dispensa intervalos; dia aberto exige intervalos válidos.
func (h *AvailabilityHandler) CreateException(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	var req CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	if req.Closed {
		req.Intervals = nil
	} else {
		normalized, ok := normalizeIntervals(req.Intervals)
		if len(req.Intervals) == 0 || !ok {
			httperr.BadRequest(c, "invalid_intervals", "Intervalos inválidos.")
			return
		}
		req.Intervals = normalized
	}

	exception := models.AvailabilityException{
		ProfessionalID: pro.ID,
		Date:           req.Date,
		Closed:         req.Closed,
		Intervals:      datatypes.NewJSONType(req.Intervals),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ? AND date = ?", pro.ID, req.Date).
			Delete(&models.AvailabilityException{}).Error; err != nil {
			return err
		}
		return tx.Create(&exception).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_exception", "Erro ao salvar exceção.")
		return
	}

	httpresp.Created(c, exception)
}

func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	pro, ok := h.professionalFromContext(c)
	if !ok {
		return
	}

	exceptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	result := h.db.
		Where("id = ? AND professional_id = ?", exceptionID, pro.ID).
		Delete(&models.AvailabilityException{})

	if result.Error != nil {
		httperr.Internal(c, "failed_to_delete_exception", "Erro ao remover exceção.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "exception_not_found", "Exceção não encontrada.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
