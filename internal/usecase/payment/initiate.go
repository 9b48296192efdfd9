package payment

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/payments"
	"github.com/andersonraduan/reserva-rapida-pt/internal/timezone"
)

// taxa do provedor simulado (2.9%)
const providerFeeRate = 0.029

// Enqueuer agenda a expiração do pagamento pendente.
type Enqueuer interface {
	EnqueuePaymentExpiry(ctx context.Context, paymentID uuid.UUID, at time.Time) error
}

// ======================================================
// INPUT
// ======================================================

type InitiateInput struct {
	BookingID uuid.UUID
	Method    string
	ActorID   uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

type Initiate struct {
	repo     domain.Repository
	provider payments.CheckoutProvider
	enqueuer Enqueuer
	audit    *audit.Dispatcher
}

func NewInitiate(
	repo domain.Repository,
	provider payments.CheckoutProvider,
	enqueuer Enqueuer,
	audit *audit.Dispatcher,
) *Initiate {
	return &Initiate{
		repo:     repo,
		provider: provider,
		enqueuer: enqueuer,
		audit:    audit,
	}
}

func (uc *Initiate) Execute(
	ctx context.Context,
	in InitiateInput,
) (*models.Payment, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if b.ClientUserID != in.ActorID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.CanInitiatePayment(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	cfg, err := uc.repo.GetPlatformConfig(ctx)
	if err != nil {
		return nil, err
	}

	if !methodEnabled(cfg, in.Method) {
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	service, err := uc.repo.GetService(ctx, b.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	amount := service.Price
	fees := round2(amount * providerFeeRate)
	commission := cfg.PlatformCommissionEUR

	p := &models.Payment{
		BookingID:          b.ID,
		Method:             in.Method,
		Status:             models.PaymentStatusPending,
		Amount:             amount,
		Fees:               fees,
		PlatformCommission: commission,
		NetToProfessional:  round2(amount - fees - commission),
	}

	now := timezone.Now()

	switch in.Method {
	case models.PaymentMethodMultibanco:
		expiresAt, err := uc.multibancoExpiry(ctx, b, cfg, now)
		if err != nil {
			return nil, err
		}
		p.ReferenceEntity, p.ReferenceNumber = payments.NewMultibancoReference()
		p.ExpiresAt = &expiresAt

	case models.PaymentMethodCard, models.PaymentMethodMBWay:
		expiresAt := now.Add(time.Duration(cfg.HoldMinutesOnSession) * time.Minute)
		p.ExpiresAt = &expiresAt

	default:
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	if err := domain.MarkPendingPayment(b); err != nil {
		return nil, err
	}

	if err := uc.repo.SavePaymentAndBooking(ctx, p, b); err != nil {
		return nil, err
	}

	// A expiração é agendada no instante em que o estado pendente existe:
	// qualquer falha daqui em diante deixa um hold que expira sozinho, nunca
	// um slot preso para sempre.
	if p.ExpiresAt != nil {
		if err := uc.enqueuer.EnqueuePaymentExpiry(ctx, p.ID, *p.ExpiresAt); err != nil {
			return nil, err
		}
	}

	// a URL inclui o id do pagamento, por isso só existe depois da criação
	if in.Method != models.PaymentMethodMultibanco {
		url, err := uc.provider.CreateCheckoutURL(ctx, payments.CheckoutParams{
			PaymentID: p.ID,
			Amount:    amount,
		})
		if err != nil {
			return nil, err
		}
		p.CheckoutURL = url
		if err := uc.repo.SavePaymentAndBooking(ctx, p, b); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ActorID,
		Action:   "payment_initiated",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{"method": in.Method, "amount": amount},
	})

	return p, nil
}

// multibancoExpiry: o menor entre a preferência do profissional e o limite
// antes do início da sessão.
func (uc *Initiate) multibancoExpiry(
	ctx context.Context,
	b *models.Booking,
	cfg *models.PlatformConfig,
	now time.Time,
) (time.Time, error) {

	pro, err := uc.repo.GetProfessionalByID(ctx, b.ProfessionalID)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("professional_not_found")
	}

	prefExpiry := now.Add(time.Duration(pro.MultibancoExpirationHours) * time.Hour)
	latestAllowed := b.StartAt.Add(-time.Duration(cfg.MultibancoPreAppointmentExpireMinutes) * time.Minute)

	expiresAt := prefExpiry
	if latestAllowed.Before(expiresAt) {
		expiresAt = latestAllowed
	}

	if !expiresAt.After(now) {
		return time.Time{}, httperr.ErrBusiness("too_late_for_multibanco")
	}

	return expiresAt, nil
}

func methodEnabled(cfg *models.PlatformConfig, method string) bool {
	for _, m := range cfg.PaymentMethodsEnabled.Data() {
		if m == method {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
