package handlers

import (
	"time"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por profissional
// --------------------------------------------------

func locationFromProfessional(pro *models.Professional) *time.Location {
	if pro != nil {
		return timezone.Location(pro.Timezone)
	}
	return timezone.Location(timezone.DefaultTimezone)
}

// parseInstant aceita RFC3339 ("2026-09-01T10:00:00+01:00") ou hora local do
// profissional ("2026-09-01 10:00").
func parseInstant(pro *models.Professional, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.ParseInLocation(
		"2006-01-02 15:04",
		value,
		locationFromProfessional(pro),
	)
}

func parseDateInProfessional(pro *models.Professional, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromProfessional(pro),
	)
}
