package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RescheduleInput struct {
	BookingID  uuid.UUID
	NewStartAt time.Time

	// opcional: troca de serviço no reagendamento
	ServiceID *uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

type Reschedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReschedule(repo domain.Repository, audit *audit.Dispatcher) *Reschedule {
	return &Reschedule{repo: repo, audit: audit}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	actor Actor,
	in RescheduleInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := canTouchBooking(ctx, uc.repo, actor, b); err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	pro, err := uc.repo.GetProfessionalByID(ctx, b.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	serviceID := b.ServiceID
	if in.ServiceID != nil {
		serviceID = *in.ServiceID
	}

	service, err := uc.repo.GetService(ctx, serviceID)
	if err != nil || service.ProfessionalID != pro.ID {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !service.Active || service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	cfg, err := uc.repo.GetPlatformConfig(ctx)
	if err != nil {
		return nil, err
	}

	// limites de política valem para o cliente; profissional e admin
	// reagendam sem contar contra a cota
	now := timezone.NowIn(pro.Timezone)
	if actor.Role == models.RoleClient {
		if b.RescheduleClientCount >= cfg.RescheduleClientMaxTimes {
			return nil, httperr.ErrBusiness("reschedule_limit_reached")
		}

		minLead := time.Duration(cfg.RescheduleMinHoursForClient) * time.Hour
		if in.NewStartAt.Before(now.Add(minLead)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	newEnd := in.NewStartAt.Add(time.Duration(service.DurationMin) * time.Minute)

	if err := uc.assertWithinWorkingHours(ctx, pro, in.NewStartAt, newEnd); err != nil {
		return nil, err
	}

	if err := domain.Reschedule(b, in.NewStartAt, newEnd, now); err != nil {
		return nil, err
	}
	b.ServiceID = service.ID

	// mesma transação: guard + gravação
	if err := uc.repo.RescheduleBookingReserved(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"new_start_at": in.NewStartAt,
			"count":        b.RescheduleClientCount,
		},
	})

	return b, nil
}

func (uc *Reschedule) assertWithinWorkingHours(
	ctx context.Context,
	pro *models.Professional,
	start time.Time,
	end time.Time,
) error {

	rules, err := uc.repo.ListRules(ctx, pro.ID)
	if err != nil {
		return err
	}

	loc := timezone.Location(pro.Timezone)
	day := start.In(loc).Format("2006-01-02")

	exceptions, err := uc.repo.ListExceptions(ctx, pro.ID, day, day)
	if err != nil {
		return err
	}

	if !domain.WithinWorkingHours(pro.ID, rules, exceptions, start, end) {
		return httperr.ErrBusiness("outside_working_hours")
	}

	return nil
}
