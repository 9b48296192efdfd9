package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

type GetAvailabilityInput struct {
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	From           time.Time
	To             time.Time
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) ([]domain.TimeSlot, error) {

	if in.From.IsZero() || in.To.IsZero() || in.From.After(in.To) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	pro, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || service.ProfessionalID != pro.ID {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	rules, err := uc.repo.ListRules(ctx, pro.ID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(pro.Timezone)
	fromDate := in.From.In(loc).Format("2006-01-02")
	toDate := in.To.In(loc).Format("2006-01-02")

	exceptions, err := uc.repo.ListExceptions(ctx, pro.ID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	// janela alargada: o motor refaz o filtro exato de sobreposição
	bookings, err := uc.repo.ListActiveBookings(
		ctx,
		pro.ID,
		in.From.Add(-24*time.Hour),
		in.To.Add(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	return domain.ComputeAvailability(domain.AvailabilityInput{
		ProfessionalID: pro.ID,
		Service:        service,
		From:           in.From,
		To:             in.To,
		Rules:          rules,
		Exceptions:     exceptions,
		Bookings:       bookings,
	})
}
