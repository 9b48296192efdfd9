package booking

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

const dateLayout = "2006-01-02"

// TimeSlot é um horário reservável. Valor puro, sem identidade:
// dois slots são iguais se e somente se seus limites são iguais.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityInput struct {
	ProfessionalID uuid.UUID
	Service        *models.Service
	From           time.Time
	To             time.Time

	Rules      []models.AvailabilityRule
	Exceptions []models.AvailabilityException

	// O chamador pode fornecer reservas a mais; o motor filtra por
	// profissional e por status ativo.
	Bookings []models.Booking
}

// Overlaps é o predicado de sobreposição de intervalos semiabertos [start, end).
// É o MESMO predicado usado pelo Conflict Guard — motor e guarda nunca
// podem divergir nessa regra.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// ComputeAvailability gera os slots livres do profissional na janela [From, To].
//
// Por dia civil: a exceção de calendário, se existir, substitui por completo a
// regra semanal (fechado → nenhum slot). Cada intervalo de expediente é
// particionado em slots contíguos do tamanho do serviço; sobras menores que a
// duração são descartadas. Slots que sobrepõem qualquer reserva ativa, ou que
// não cabem inteiros na janela consultada, são excluídos.
//
// Função pura: sem estado, sem "now" implícito, saída determinística em ordem
// cronológica.
func ComputeAvailability(in AvailabilityInput) ([]TimeSlot, error) {
	if in.From.IsZero() || in.To.IsZero() || in.From.After(in.To) {
		return nil, httperr.ErrBusiness("invalid_range")
	}
	if in.Service == nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !in.Service.Active || in.Service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	duration := in.Service.DurationMin

	rulesByWeekday := make(map[int]models.AvailabilityRule, len(in.Rules))
	for _, r := range in.Rules {
		if r.ProfessionalID == in.ProfessionalID {
			rulesByWeekday[r.Weekday] = r
		}
	}

	exceptionsByDate := make(map[string]models.AvailabilityException, len(in.Exceptions))
	for _, e := range in.Exceptions {
		if e.ProfessionalID == in.ProfessionalID {
			exceptionsByDate[e.Date] = e
		}
	}

	busy := activeBookingsFor(in.ProfessionalID, in.Bookings)

	loc := rulesLocation(in.Rules)

	first := in.From.In(loc)
	firstDay := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	last := in.To.In(loc)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	slots := []TimeSlot{}

	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		intervals := effectiveIntervals(d, rulesByWeekday, exceptionsByDate)

		for _, iv := range intervals {
			startMin, ok1 := parseWallClock(iv.Start)
			endMin, ok2 := parseWallClock(iv.End)
			if !ok1 || !ok2 || endMin <= startMin {
				continue
			}

			// A contagem de slots é feita em minutos de relógio local,
			// não em divisão de instantes absolutos: em dias de transição
			// de horário de verão um "09:00–18:00" local pode cobrir uma
			// duração absoluta diferente sem ganhar nem perder slots.
			for k := 0; startMin+(k+1)*duration <= endMin; k++ {
				m := startMin + k*duration
				slotStart := time.Date(d.Year(), d.Month(), d.Day(), 0, m, 0, 0, loc)
				slotEnd := time.Date(d.Year(), d.Month(), d.Day(), 0, m+duration, 0, 0, loc)

				// o slot precisa caber inteiro na janela consultada
				if !slotStart.After(in.From) || slotEnd.After(in.To) {
					continue
				}

				if conflictsAny(slotStart, slotEnd, busy) {
					continue
				}

				slots = append(slots, TimeSlot{Start: slotStart, End: slotEnd})
			}
		}
	}

	return slots, nil
}

// activeBookingsFor filtra as reservas que de fato bloqueiam horário.
func activeBookingsFor(professionalID uuid.UUID, all []models.Booking) []models.Booking {
	var active []models.Booking
	for _, b := range all {
		if b.ProfessionalID != professionalID {
			continue
		}
		if !Status(b.Status).IsActive() {
			continue
		}
		active = append(active, b)
	}
	return active
}

func conflictsAny(start, end time.Time, bookings []models.Booking) bool {
	for _, b := range bookings {
		if Overlaps(start, end, b.StartAt, b.EndAt) {
			return true
		}
	}
	return false
}

// effectiveIntervals resolve o expediente do dia: exceção substitui a regra
// semanal; dia sem regra e sem exceção não tem slots (não é erro).
// Os intervalos saem ordenados por início, mesmo que tenham sido gravados
// fora de ordem — a saída do motor depende disso para ser cronológica.
func effectiveIntervals(
	day time.Time,
	rules map[int]models.AvailabilityRule,
	exceptions map[string]models.AvailabilityException,
) []models.Interval {

	if ex, ok := exceptions[day.Format(dateLayout)]; ok {
		if ex.Closed {
			return nil
		}
		return sortedByStart(ex.Intervals.Data())
	}

	if rule, ok := rules[int(day.Weekday())]; ok {
		return sortedByStart(rule.Intervals.Data())
	}

	return nil
}

func sortedByStart(intervals []models.Interval) []models.Interval {
	out := make([]models.Interval, len(intervals))
	copy(out, intervals)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := parseWallClock(out[i].Start)
		b, _ := parseWallClock(out[j].Start)
		return a < b
	})
	return out
}

// rulesLocation devolve o fuso em que o expediente é interpretado.
// Todas as regras de um profissional compartilham o mesmo fuso.
func rulesLocation(rules []models.AvailabilityRule) *time.Location {
	for _, r := range rules {
		if r.Timezone != "" {
			return timezone.Location(r.Timezone)
		}
	}
	return timezone.Location("")
}

// parseWallClock converte "HH:MM" para minutos desde a meia-noite local.
func parseWallClock(hm string) (int, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
