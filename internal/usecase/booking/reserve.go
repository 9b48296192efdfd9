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

type ReserveInput struct {
	ClientUserID   uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	StartAt        time.Time
}

// ======================================================
// USE CASE
// ======================================================

// Reserve cria a reserva em rascunho ocupando o slot escolhido.
// O Conflict Guard revalida o horário contra o conjunto ATUAL de reservas
// ativas dentro da transação: a lista de slots que o cliente viu pode estar
// desatualizada (corrida entre exibição e confirmação).
type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReserve(repo domain.Repository, audit *audit.Dispatcher) *Reserve {
	return &Reserve{repo: repo, audit: audit}
}

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Booking, error) {

	pro, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || service.ProfessionalID != pro.ID {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !service.Active || service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	end := in.StartAt.Add(time.Duration(service.DurationMin) * time.Minute)

	cfg, err := uc.repo.GetPlatformConfig(ctx)
	if err != nil {
		return nil, err
	}

	// antecedência mínima
	now := timezone.NowIn(pro.Timezone)
	if in.StartAt.Before(now.Add(time.Duration(cfg.MinAdvanceMinutes) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	if err := uc.assertWithinWorkingHours(ctx, pro, in.StartAt, end); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ClientUserID:   in.ClientUserID,
		ProfessionalID: pro.ID,
		ServiceID:      service.ID,
		StartAt:        in.StartAt,
		EndAt:          end,
		Status:         string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBookingReserved(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ClientUserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

func (uc *Reserve) assertWithinWorkingHours(
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
