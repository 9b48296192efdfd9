package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

func TestWithinWorkingHours_ContainmentIsStrict(t *testing.T) {
	proID := uuid.New()
	rules := []models.AvailabilityRule{
		makeRule(proID, 1, models.Interval{Start: "09:00", End: "12:00"}),
	}

	at := func(h, m int) time.Time {
		return time.Date(2026, time.September, 7, h, m, 0, 0, lisbon)
	}

	assert.True(t, WithinWorkingHours(proID, rules, nil, at(9, 0), at(9, 30)))
	assert.True(t, WithinWorkingHours(proID, rules, nil, at(11, 30), at(12, 0)))

	// transborda o fim do expediente
	assert.False(t, WithinWorkingHours(proID, rules, nil, at(11, 45), at(12, 15)))

	// começa antes do expediente
	assert.False(t, WithinWorkingHours(proID, rules, nil, at(8, 45), at(9, 15)))

	// domingo sem regra
	sunday := time.Date(2026, time.September, 6, 9, 0, 0, 0, lisbon)
	assert.False(t, WithinWorkingHours(proID, rules, nil, sunday, sunday.Add(30*time.Minute)))
}

func TestWithinWorkingHours_ExceptionReplacesRule(t *testing.T) {
	proID := uuid.New()
	rules := []models.AvailabilityRule{
		makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
	}
	exceptions := []models.AvailabilityException{
		makeException(proID, "2026-09-07", false,
			models.Interval{Start: "14:00", End: "16:00"}),
	}

	morning := time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon)
	afternoon := time.Date(2026, time.September, 7, 14, 30, 0, 0, lisbon)

	// a manhã, permitida pela regra, deixa de valer na data da exceção
	assert.False(t, WithinWorkingHours(proID, rules, exceptions, morning, morning.Add(30*time.Minute)))
	assert.True(t, WithinWorkingHours(proID, rules, exceptions, afternoon, afternoon.Add(30*time.Minute)))
}

func TestWithinWorkingHours_ClosedDayRejectsEverything(t *testing.T) {
	proID := uuid.New()
	rules := []models.AvailabilityRule{
		makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
	}
	exceptions := []models.AvailabilityException{
		makeException(proID, "2026-09-07", true),
	}

	start := time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon)
	assert.False(t, WithinWorkingHours(proID, rules, exceptions, start, start.Add(time.Hour)))
}
