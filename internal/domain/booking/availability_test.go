package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ======================================================
// HELPERS
// ======================================================

var lisbon, _ = time.LoadLocation("Europe/Lisbon")

func makeService(proID uuid.UUID, durationMin int) *models.Service {
	return &models.Service{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Name:           "Corte de Cabelo",
		DurationMin:    durationMin,
		Price:          12.50,
		Active:         true,
	}
}

func makeRule(proID uuid.UUID, weekday int, intervals ...models.Interval) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Weekday:        weekday,
		Intervals:      datatypes.NewJSONType(intervals),
		Timezone:       "Europe/Lisbon",
	}
}

func makeException(proID uuid.UUID, date string, closed bool, intervals ...models.Interval) models.AvailabilityException {
	return models.AvailabilityException{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Date:           date,
		Closed:         closed,
		Intervals:      datatypes.NewJSONType(intervals),
	}
}

func makeBooking(proID uuid.UUID, status string, start, end time.Time) models.Booking {
	return models.Booking{
		ID:             uuid.New(),
		ProfessionalID: proID,
		Status:         status,
		StartAt:        start,
		EndAt:          end,
	}
}

// janela de dia inteiro no fuso de Lisboa
func dayWindow(year int, month time.Month, day int) (time.Time, time.Time) {
	from := time.Date(year, month, day, 0, 0, 0, 0, lisbon)
	return from, from.AddDate(0, 0, 1)
}

// ======================================================
// GERAÇÃO BÁSICA
// ======================================================

func TestComputeAvailability_PartitionsIntervalIntoSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// 2026-09-07 é segunda-feira
	from, to := dayWindow(2026, time.September, 7)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon), slots[0].Start)
	assert.Equal(t, time.Date(2026, time.September, 7, 9, 30, 0, 0, lisbon), slots[0].End)
	assert.Equal(t, time.Date(2026, time.September, 7, 9, 30, 0, 0, lisbon), slots[1].Start)
	assert.Equal(t, time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon), slots[1].End)
}

func TestComputeAvailability_DropsTrailingPartialSlot(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	// 09:00–10:15: sobra de 15 minutos é descartada
	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:15"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon), slots[1].End)
}

func TestComputeAvailability_MultipleIntervalsInOneDay(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 60)
	from, to := dayWindow(2026, time.September, 7)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1,
				models.Interval{Start: "09:00", End: "12:00"},
				models.Interval{Start: "14:00", End: "16:00"},
			),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 5)

	// manhã: 09, 10, 11; tarde: 14, 15
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 11, slots[2].Start.Hour())
	assert.Equal(t, 14, slots[3].Start.Hour())
	assert.Equal(t, 15, slots[4].Start.Hour())
}

func TestComputeAvailability_UnorderedIntervalsStillChronological(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	// intervalos gravados fora de ordem: a tarde antes da manhã
	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1,
				models.Interval{Start: "14:00", End: "15:00"},
				models.Interval{Start: "09:00", End: "10:00"},
			),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.Equal(t, time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon), slots[0].Start)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start),
			"slots fora de ordem cronológica: %v depois de %v", slots[i].Start, slots[i-1].Start)
	}
}

func TestComputeAvailability_UnorderedExceptionIntervalsStillChronological(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 60)
	from, to := dayWindow(2026, time.September, 7)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Exceptions: []models.AvailabilityException{
			makeException(proID, "2026-09-07", false,
				models.Interval{Start: "16:00", End: "17:00"},
				models.Interval{Start: "10:00", End: "11:00"},
			),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 10, slots[0].Start.Hour())
	assert.Equal(t, 16, slots[1].Start.Hour())
}

func TestComputeAvailability_DayWithoutRuleHasNoSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// 2026-09-06 é domingo; só existe regra para segunda
	from, to := dayWindow(2026, time.September, 6)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
		},
	})

	require.NoError(t, err)
	assert.Empty(t, slots)
}

// ======================================================
// EXCEÇÕES DE CALENDÁRIO
// ======================================================

func TestComputeAvailability_ClosedExceptionRemovesAllSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
		},
		Exceptions: []models.AvailabilityException{
			makeException(proID, "2026-09-07", true),
		},
	})

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailability_ExceptionReplacesWeekdayRule(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 60)
	from, to := dayWindow(2026, time.September, 7)

	// a exceção substitui a regra por inteiro: nada de 09:00–18:00,
	// só o intervalo reduzido vale naquele dia
	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
		},
		Exceptions: []models.AvailabilityException{
			makeException(proID, "2026-09-07", false,
				models.Interval{Start: "15:00", End: "17:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 15, slots[0].Start.Hour())
	assert.Equal(t, 16, slots[1].Start.Hour())
}

func TestComputeAvailability_ExceptionOnlyAffectsItsOwnDate(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 60)

	from := time.Date(2026, time.September, 7, 0, 0, 0, 0, lisbon)
	to := from.AddDate(0, 0, 2) // segunda e terça

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "11:00"}),
			makeRule(proID, 2, models.Interval{Start: "09:00", End: "11:00"}),
		},
		Exceptions: []models.AvailabilityException{
			makeException(proID, "2026-09-07", true),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 8, slots[0].Start.Day())
	assert.Equal(t, 8, slots[1].Start.Day())
}

// ======================================================
// RESERVAS EXISTENTES
// ======================================================

func TestComputeAvailability_ActiveBookingBlocksOverlappingSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	booked := makeBooking(proID, "confirmed",
		time.Date(2026, time.September, 7, 9, 30, 0, 0, lisbon),
		time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon),
	)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:30"}),
		},
		Bookings: []models.Booking{booked},
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 0, slots[0].Start.Minute())
	assert.Equal(t, 10, slots[1].Start.Hour())
	assert.Equal(t, 0, slots[1].Start.Minute())
}

func TestComputeAvailability_DraftAndPendingBlockSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	for _, status := range []string{"draft", "pending_payment"} {
		blocked := makeBooking(proID, status,
			time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon),
			time.Date(2026, time.September, 7, 9, 30, 0, 0, lisbon),
		)

		slots, err := ComputeAvailability(AvailabilityInput{
			ProfessionalID: proID,
			Service:        service,
			From:           from,
			To:             to,
			Rules: []models.AvailabilityRule{
				makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
			},
			Bookings: []models.Booking{blocked},
		})

		require.NoError(t, err)
		require.Len(t, slots, 1, "status %s deveria bloquear o slot", status)
		assert.Equal(t, 30, slots[0].Start.Minute())
	}
}

func TestComputeAvailability_TerminalBookingsDoNotBlock(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	for _, status := range []string{"canceled", "expired"} {
		released := makeBooking(proID, status,
			time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon),
			time.Date(2026, time.September, 7, 9, 30, 0, 0, lisbon),
		)

		slots, err := ComputeAvailability(AvailabilityInput{
			ProfessionalID: proID,
			Service:        service,
			From:           from,
			To:             to,
			Rules: []models.AvailabilityRule{
				makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
			},
			Bookings: []models.Booking{released},
		})

		require.NoError(t, err)
		assert.Len(t, slots, 2, "status %s não deveria bloquear", status)
	}
}

func TestComputeAvailability_IgnoresOtherProfessionalsBookings(t *testing.T) {
	proID := uuid.New()
	otherPro := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	foreign := makeBooking(otherPro, "confirmed",
		time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon),
		time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon),
	)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
		},
		Bookings: []models.Booking{foreign},
	})

	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

// ======================================================
// JANELA CONSULTADA
// ======================================================

func TestComputeAvailability_SlotMustFitEntirelyInsideWindow(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// janela termina às 09:45: o slot 09:30–10:00 não cabe
	from := time.Date(2026, time.September, 7, 0, 0, 0, 0, lisbon)
	to := time.Date(2026, time.September, 7, 9, 45, 0, 0, lisbon)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 0, slots[0].Start.Minute())
}

func TestComputeAvailability_SlotStartingAtFromIsExcluded(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// From exatamente no início do expediente: esse slot já não é
	// reservável a partir de From
	from := time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon)
	to := time.Date(2026, time.September, 7, 10, 0, 0, 0, lisbon)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "10:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 30, slots[0].Start.Minute())
}

// ======================================================
// HORÁRIO DE VERÃO (Europe/Lisbon)
// ======================================================

func TestComputeAvailability_SpringForwardKeepsWallClockSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// 2026-03-29: relógios saltam de 01:00 para 02:00 em Lisboa
	from, to := dayWindow(2026, time.March, 29)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 0, models.Interval{Start: "09:00", End: "11:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 10, slots[3].Start.Hour())
	assert.Equal(t, 30, slots[3].Start.Minute())

	// no dia da mudança Lisboa já está em UTC+1: 09:00 local = 08:00 UTC
	assert.Equal(t, 8, slots[0].Start.UTC().Hour())
}

func TestComputeAvailability_FallBackKeepsWallClockSlots(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	// 2026-10-25: relógios voltam de 02:00 para 01:00
	from, to := dayWindow(2026, time.October, 25)

	slots, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 0, models.Interval{Start: "09:00", End: "11:00"}),
		},
	})

	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, 9, slots[0].Start.Hour())

	// de volta a UTC+0: 09:00 local = 09:00 UTC
	assert.Equal(t, 9, slots[0].Start.UTC().Hour())
}

// ======================================================
// DETERMINISMO E ERROS
// ======================================================

func TestComputeAvailability_IsDeterministic(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	from, to := dayWindow(2026, time.September, 7)

	in := AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
		Rules: []models.AvailabilityRule{
			makeRule(proID, 1, models.Interval{Start: "09:00", End: "18:00"}),
		},
		Bookings: []models.Booking{
			makeBooking(proID, "confirmed",
				time.Date(2026, time.September, 7, 11, 0, 0, 0, lisbon),
				time.Date(2026, time.September, 7, 11, 30, 0, 0, lisbon),
			),
		},
	}

	first, err := ComputeAvailability(in)
	require.NoError(t, err)
	second, err := ComputeAvailability(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i].Start.After(first[i-1].Start), "slots fora de ordem")
	}
}

func TestComputeAvailability_InvalidRange(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)

	from := time.Date(2026, time.September, 8, 0, 0, 0, 0, lisbon)
	to := time.Date(2026, time.September, 7, 0, 0, 0, 0, lisbon)

	_, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
	})

	assert.True(t, httperr.IsBusiness(err, "invalid_range"))
}

func TestComputeAvailability_InactiveService(t *testing.T) {
	proID := uuid.New()
	service := makeService(proID, 30)
	service.Active = false

	from, to := dayWindow(2026, time.September, 7)

	_, err := ComputeAvailability(AvailabilityInput{
		ProfessionalID: proID,
		Service:        service,
		From:           from,
		To:             to,
	})

	assert.True(t, httperr.IsBusiness(err, "service_inactive"))
}

// ======================================================
// PREDICADO DE SOBREPOSIÇÃO
// ======================================================

func TestOverlaps_HalfOpenIntervals(t *testing.T) {
	base := time.Date(2026, time.September, 7, 9, 0, 0, 0, lisbon)

	a1, a2 := base, base.Add(30*time.Minute)

	// encostados não se sobrepõem
	assert.False(t, Overlaps(a1, a2, a2, a2.Add(30*time.Minute)))
	assert.False(t, Overlaps(a2, a2.Add(30*time.Minute), a1, a2))

	// sobreposição parcial e contenção total
	assert.True(t, Overlaps(a1, a2, base.Add(15*time.Minute), base.Add(45*time.Minute)))
	assert.True(t, Overlaps(a1, a2, base.Add(-time.Hour), base.Add(time.Hour)))
	assert.True(t, Overlaps(a1, a2, a1, a2))
}
