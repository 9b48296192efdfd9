package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

// Expire encerra um pagamento pendente cujo prazo venceu e expira a
// reserva presa a ele, liberando o horário. Idempotente: pagamentos já
// liquidados ou expirados saem sem efeito.
type Expire struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewExpire(repo domain.Repository, audit *audit.Dispatcher) *Expire {
	return &Expire{repo: repo, audit: audit}
}

func (uc *Expire) Execute(
	ctx context.Context,
	paymentID uuid.UUID,
) error {

	p, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return httperr.ErrBusiness("payment_not_found")
	}

	if p.Status != models.PaymentStatusPending {
		return nil
	}

	b, err := uc.repo.GetBooking(ctx, p.BookingID)
	if err != nil {
		return httperr.ErrBusiness("booking_not_found")
	}

	now := timezone.Now()

	p.Status = models.PaymentStatusExpired

	// se a reserva já foi confirmada por outro pagamento, só o pagamento expira
	if domain.CanExpire(domain.Status(b.Status)) == nil {
		if err := domain.Expire(b, now); err != nil {
			return err
		}
	}

	if err := uc.repo.SavePaymentAndBooking(ctx, p, b); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_expired",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return nil
}
