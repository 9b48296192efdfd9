package booking

import "github.com/andersonraduan/reserva-rapida-pt/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusDraft          Status = "draft"
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCanceled       Status = "canceled"
	StatusExpired        Status = "expired"
)

// IsActive indica se a reserva ocupa o horário (bloqueia slots).
// canceled e expired são terminais e liberam o horário.
func (s Status) IsActive() bool {
	switch s {
	case StatusDraft, StatusPendingPayment, StatusConfirmed:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCanceled || s == StatusExpired
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm: só uma reserva aguardando pagamento pode ser confirmada.
func CanConfirm(current Status) error {
	if current != StatusPendingPayment {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanExpire: rascunhos e pagamentos pendentes expiram; confirmadas não.
func CanExpire(current Status) error {
	if current != StatusDraft && current != StatusPendingPayment {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanInitiatePayment(current Status) error {
	if current != StatusDraft && current != StatusPendingPayment {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusDraft
}
