package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

type Cancel struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancel(repo domain.Repository, audit *audit.Dispatcher) *Cancel {
	return &Cancel{repo: repo, audit: audit}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := canTouchBooking(ctx, uc.repo, actor, b); err != nil {
		return nil, err
	}

	now := timezone.Now()
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   "booking_canceled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
