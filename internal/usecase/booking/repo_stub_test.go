package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

var errNotFound = errors.New("not found")

// stubRepo é um domain.Repository em memória para os testes de caso de uso.
// O Conflict Guard usa o mesmo predicado de sobreposição do motor.
type stubRepo struct {
	professionals map[uuid.UUID]*models.Professional
	services      map[uuid.UUID]*models.Service
	rules         []models.AvailabilityRule
	exceptions    []models.AvailabilityException
	bookings      map[uuid.UUID]*models.Booking
	payments      map[uuid.UUID]*models.Payment
	config        *models.PlatformConfig
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		professionals: map[uuid.UUID]*models.Professional{},
		services:      map[uuid.UUID]*models.Service{},
		bookings:      map[uuid.UUID]*models.Booking{},
		payments:      map[uuid.UUID]*models.Payment{},
		config:        models.DefaultPlatformConfig(),
	}
}

func (s *stubRepo) GetProfessionalByID(_ context.Context, id uuid.UUID) (*models.Professional, error) {
	if p, ok := s.professionals[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) GetProfessionalByUserID(_ context.Context, userID uuid.UUID) (*models.Professional, error) {
	for _, p := range s.professionals {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (s *stubRepo) ListProfessionals(_ context.Context) ([]models.Professional, error) {
	var out []models.Professional
	for _, p := range s.professionals {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) GetService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	if svc, ok := s.services[id]; ok {
		return svc, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) ListServicesForProfessional(_ context.Context, professionalID uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range s.services {
		if svc.ProfessionalID == professionalID {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (s *stubRepo) ListRules(_ context.Context, professionalID uuid.UUID) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, r := range s.rules {
		if r.ProfessionalID == professionalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) ListExceptions(_ context.Context, professionalID uuid.UUID, fromDate, toDate string) ([]models.AvailabilityException, error) {
	var out []models.AvailabilityException
	for _, e := range s.exceptions {
		if e.ProfessionalID == professionalID && e.Date >= fromDate && e.Date <= toDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepo) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) ListActiveBookings(_ context.Context, professionalID uuid.UUID, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.ProfessionalID != professionalID {
			continue
		}
		if !domain.Status(b.Status).IsActive() {
			continue
		}
		if domain.Overlaps(b.StartAt, b.EndAt, from, to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListBookings(_ context.Context, filter domain.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if filter.ClientUserID != nil && b.ClientUserID != *filter.ClientUserID {
			continue
		}
		if filter.ProfessionalID != nil && b.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (s *stubRepo) assertFree(professionalID uuid.UUID, start, end time.Time, excludeID uuid.UUID) error {
	for _, other := range s.bookings {
		if other.ID == excludeID || other.ProfessionalID != professionalID {
			continue
		}
		if !domain.Status(other.Status).IsActive() {
			continue
		}
		if domain.Overlaps(start, end, other.StartAt, other.EndAt) {
			return httperr.ErrBusiness("slot_no_longer_available")
		}
	}
	return nil
}

func (s *stubRepo) CreateBookingReserved(_ context.Context, b *models.Booking) error {
	if err := s.assertFree(b.ProfessionalID, b.StartAt, b.EndAt, uuid.Nil); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *stubRepo) RescheduleBookingReserved(_ context.Context, b *models.Booking) error {
	if err := s.assertFree(b.ProfessionalID, b.StartAt, b.EndAt, b.ID); err != nil {
		return err
	}
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *stubRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *stubRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copied := *p
	s.payments[p.ID] = &copied
	return nil
}

func (s *stubRepo) GetPayment(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	if p, ok := s.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errNotFound
}

func (s *stubRepo) SavePaymentAndBooking(_ context.Context, p *models.Payment, b *models.Booking) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copiedP := *p
	copiedB := *b
	s.payments[p.ID] = &copiedP
	s.bookings[b.ID] = &copiedB
	return nil
}

func (s *stubRepo) GetPlatformConfig(_ context.Context) (*models.PlatformConfig, error) {
	return s.config, nil
}

var _ domain.Repository = (*stubRepo)(nil)

// ======================================================
// FIXTURES
// ======================================================

func newTestDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	return audit.NewDispatcher(audit.New(db))
}
