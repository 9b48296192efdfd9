package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// Status que bloqueiam horário; tem de casar com Status.IsActive do domínio.
var activeStatuses = []string{
	string(domain.StatusDraft),
	string(domain.StatusPendingPayment),
	string(domain.StatusConfirmed),
}

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *BookingGormRepository) GetProfessionalByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).First(&pro, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *BookingGormRepository) GetProfessionalByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *BookingGormRepository) ListProfessionals(
	ctx context.Context,
) ([]models.Professional, error) {

	var pros []models.Professional
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&pros).Error; err != nil {
		return nil, err
	}
	return pros, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) ListServicesForProfessional(
	ctx context.Context,
	professionalID uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND active = ?", professionalID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *BookingGormRepository) ListRules(
	ctx context.Context,
	professionalID uuid.UUID,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *BookingGormRepository) ListExceptions(
	ctx context.Context,
	professionalID uuid.UUID,
	fromDate string,
	toDate string,
) ([]models.AvailabilityException, error) {

	var exceptions []models.AvailabilityException
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND date >= ? AND date <= ?",
			professionalID, fromDate, toDate,
		).
		Order("date ASC").
		Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uuid.UUID,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Professional").
		First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	professionalID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
			professionalID, activeStatuses, to, from,
		).
		Order("start_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.BookingFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Professional")

	if filter.ClientUserID != nil {
		q = q.Where("client_user_id = ?", *filter.ClientUserID)
	}
	if filter.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *filter.ProfessionalID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_at < ?", *filter.To)
	}

	var bookings []models.Booking
	if err := q.Order("start_at ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBookingReserved: Conflict Guard + criação na mesma transação.
// A checagem usa o mesmo predicado de sobreposição do motor de
// disponibilidade (start < fim AND end > início, intervalo semiaberto).
func (r *BookingGormRepository) CreateBookingReserved(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertNoTimeConflict(tx, b.ProfessionalID, b.StartAt, b.EndAt, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(b).Error
	})
}

func (r *BookingGormRepository) RescheduleBookingReserved(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertNoTimeConflict(tx, b.ProfessionalID, b.StartAt, b.EndAt, b.ID); err != nil {
			return err
		}
		return tx.Save(b).Error
	})
}

func assertNoTimeConflict(
	tx *gorm.DB,
	professionalID uuid.UUID,
	start time.Time,
	end time.Time,
	excludeID uuid.UUID,
) error {

	q := tx.Model(&models.Booking{}).
		Where(
			"professional_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
			professionalID, activeStatuses, end, start,
		)

	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("slot_no_longer_available")
	}

	return nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) GetPayment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BookingGormRepository) SavePaymentAndBooking(
	ctx context.Context,
	p *models.Payment,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		return tx.Save(b).Error
	})
}

// --------------------------------------------------
// Config
// --------------------------------------------------

func (r *BookingGormRepository) GetPlatformConfig(
	ctx context.Context,
) (*models.PlatformConfig, error) {

	var cfg models.PlatformConfig
	if err := r.db.WithContext(ctx).First(&cfg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.DefaultPlatformConfig(), nil
		}
		return nil, err
	}
	return &cfg, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
