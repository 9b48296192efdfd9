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

// Settle processa o retorno (simulado) do provedor de pagamento.
// Sucesso confirma a reserva; falha mantém a reserva pendente para
// nova tentativa.
type Settle struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSettle(repo domain.Repository, audit *audit.Dispatcher) *Settle {
	return &Settle{repo: repo, audit: audit}
}

func (uc *Settle) Execute(
	ctx context.Context,
	paymentID uuid.UUID,
	succeeded bool,
) (*models.Payment, error) {

	p, err := uc.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}

	if p.Status != models.PaymentStatusPending {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	b, err := uc.repo.GetBooking(ctx, p.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	action := "payment_failed"

	if succeeded {
		now := timezone.Now()
		if err := domain.Confirm(b, now); err != nil {
			return nil, err
		}
		p.Status = models.PaymentStatusSucceeded
		action = "payment_succeeded"
	} else {
		p.Status = models.PaymentStatusFailed
	}

	if err := uc.repo.SavePaymentAndBooking(ctx, p, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   action,
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}
