package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/tokens"
)

type RescheduleLinkOutput struct {
	RescheduleLink string    `json:"reschedule_link"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// RescheduleLink emite um link de uso sem sessão para reagendar uma reserva.
// O token vive no redis com TTL; expirou, o link morre sozinho.
type RescheduleLink struct {
	repo  domain.Repository
	store *tokens.RescheduleStore
	audit *audit.Dispatcher
}

func NewRescheduleLink(
	repo domain.Repository,
	store *tokens.RescheduleStore,
	audit *audit.Dispatcher,
) *RescheduleLink {
	return &RescheduleLink{repo: repo, store: store, audit: audit}
}

func (uc *RescheduleLink) Generate(
	ctx context.Context,
	actor Actor,
	bookingID uuid.UUID,
) (*RescheduleLinkOutput, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := canTouchBooking(ctx, uc.repo, actor, b); err != nil {
		return nil, err
	}

	if domain.Status(b.Status).IsTerminal() {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	token, expiresAt, err := uc.store.Generate(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor.UserID,
		Action:   "reschedule_link_generated",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return &RescheduleLinkOutput{
		RescheduleLink: fmt.Sprintf("/r/%s", token),
		ExpiresAt:      expiresAt,
	}, nil
}

// Resolve carrega a reserva apontada por um token ainda válido.
func (uc *RescheduleLink) Resolve(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	bookingID, err := uc.store.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	return b, nil
}

// Consume invalida o token após um reagendamento bem-sucedido.
func (uc *RescheduleLink) Consume(ctx context.Context, token string) error {
	return uc.store.Revoke(ctx, token)
}
