package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// WithinWorkingHours valida se [start, end) cabe inteiro em algum intervalo
// do expediente efetivo do dia (exceções substituem a regra semanal).
func WithinWorkingHours(
	professionalID uuid.UUID,
	rules []models.AvailabilityRule,
	exceptions []models.AvailabilityException,
	start time.Time,
	end time.Time,
) bool {

	rulesByWeekday := make(map[int]models.AvailabilityRule, len(rules))
	for _, r := range rules {
		if r.ProfessionalID == professionalID {
			rulesByWeekday[r.Weekday] = r
		}
	}

	exceptionsByDate := make(map[string]models.AvailabilityException, len(exceptions))
	for _, e := range exceptions {
		if e.ProfessionalID == professionalID {
			exceptionsByDate[e.Date] = e
		}
	}

	loc := rulesLocation(rules)
	day := start.In(loc)

	intervals := effectiveIntervals(day, rulesByWeekday, exceptionsByDate)

	for _, iv := range intervals {
		startMin, ok1 := parseWallClock(iv.Start)
		endMin, ok2 := parseWallClock(iv.End)
		if !ok1 || !ok2 {
			continue
		}

		ivStart := time.Date(day.Year(), day.Month(), day.Day(), 0, startMin, 0, 0, loc)
		ivEnd := time.Date(day.Year(), day.Month(), day.Day(), 0, endMin, 0, 0, loc)

		if !start.Before(ivStart) && !end.After(ivEnd) {
			return true
		}
	}

	return false
}
