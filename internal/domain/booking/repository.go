package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

type BookingFilter struct {
	ClientUserID   *uuid.UUID
	ProfessionalID *uuid.UUID
	Status         string
	From           *time.Time
	To             *time.Time
}

type Repository interface {
	// -------- Professional --------
	GetProfessionalByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Professional, error)

	GetProfessionalByUserID(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Professional, error)

	ListProfessionals(ctx context.Context) ([]models.Professional, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Service, error)

	ListServicesForProfessional(
		ctx context.Context,
		professionalID uuid.UUID,
	) ([]models.Service, error)

	// -------- Calendar --------
	ListRules(
		ctx context.Context,
		professionalID uuid.UUID,
	) ([]models.AvailabilityRule, error)

	ListExceptions(
		ctx context.Context,
		professionalID uuid.UUID,
		fromDate string,
		toDate string,
	) ([]models.AvailabilityException, error)

	// -------- Booking --------
	GetBooking(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Booking, error)

	ListActiveBookings(
		ctx context.Context,
		professionalID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	ListBookings(
		ctx context.Context,
		filter BookingFilter,
	) ([]models.Booking, error)

	// CreateBookingReserved aplica o Conflict Guard e grava a reserva na
	// mesma transação: ou o horário está livre e a reserva é criada, ou
	// nada é gravado (slot_no_longer_available).
	CreateBookingReserved(
		ctx context.Context,
		b *models.Booking,
	) error

	// RescheduleBookingReserved: mesmo guard, excluindo a própria reserva.
	RescheduleBookingReserved(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Payment --------
	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	GetPayment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Payment, error)

	// SavePaymentAndBooking persiste liquidação/expiração de pagamento e a
	// transição da reserva como uma unidade atômica.
	SavePaymentAndBooking(
		ctx context.Context,
		p *models.Payment,
		b *models.Booking,
	) error

	// -------- Config --------
	GetPlatformConfig(ctx context.Context) (*models.PlatformConfig, error)
}
