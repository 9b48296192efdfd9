package booking

import (
	"time"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCanceled)
	b.CanceledAt = &now
	return nil
}

func Confirm(b *models.Booking, now time.Time) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	return nil
}

func Expire(b *models.Booking, now time.Time) error {
	if err := CanExpire(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusExpired)
	b.ExpiredAt = &now
	return nil
}

// Reschedule move a reserva para um novo horário e incrementa o contador.
// A verificação de conflito é responsabilidade do chamador (Conflict Guard).
func Reschedule(b *models.Booking, newStart, newEnd time.Time, now time.Time) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}

	b.StartAt = newStart
	b.EndAt = newEnd
	b.RescheduleClientCount++
	b.LastRescheduledAt = &now
	return nil
}

func MarkPendingPayment(b *models.Booking) error {
	if err := CanInitiatePayment(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusPendingPayment)
	return nil
}
