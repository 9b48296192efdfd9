package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
)

type CheckoutParams struct {
	PaymentID uuid.UUID
	Amount    float64
}

// CheckoutProvider gera a URL de checkout para card / MB WAY.
type CheckoutProvider interface {
	CreateCheckoutURL(ctx context.Context, params CheckoutParams) (string, error)
}

// SimulatedCheckout é o provedor de demonstração: gera uma URL interna e
// permite "concluir" o pagamento sem credenciais reais. A liquidação real
// fica fora do escopo da plataforma.
type SimulatedCheckout struct {
	publicBaseURL string
}

func NewSimulatedCheckout(publicBaseURL string) *SimulatedCheckout {
	return &SimulatedCheckout{
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

func (s *SimulatedCheckout) CreateCheckoutURL(ctx context.Context, params CheckoutParams) (string, error) {
	_ = ctx
	if params.PaymentID == uuid.Nil {
		return "", httperr.ErrBusiness("payment_not_found")
	}
	if !isValidBaseURL(s.publicBaseURL) {
		return "", fmt.Errorf("payments: PUBLIC_BASE_URL must be an absolute http(s) URL")
	}

	return fmt.Sprintf("%s/payments/simulated/%s", s.publicBaseURL, params.PaymentID), nil
}

func isValidBaseURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
