package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

func TestStatus_ActiveAndTerminal(t *testing.T) {
	assert.True(t, StatusDraft.IsActive())
	assert.True(t, StatusPendingPayment.IsActive())
	assert.True(t, StatusConfirmed.IsActive())

	assert.False(t, StatusCanceled.IsActive())
	assert.False(t, StatusExpired.IsActive())

	assert.True(t, StatusCanceled.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestCanConfirm_OnlyFromPendingPayment(t *testing.T) {
	assert.NoError(t, CanConfirm(StatusPendingPayment))

	for _, s := range []Status{StatusDraft, StatusConfirmed, StatusCanceled, StatusExpired} {
		err := CanConfirm(s)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"), "status %s", s)
	}
}

func TestCanExpire_ConfirmedNeverExpires(t *testing.T) {
	assert.NoError(t, CanExpire(StatusDraft))
	assert.NoError(t, CanExpire(StatusPendingPayment))

	err := CanExpire(StatusConfirmed)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCancel_SetsTerminalStateAndTimestamp(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: string(StatusConfirmed)}

	require.NoError(t, Cancel(b, now))
	assert.Equal(t, string(StatusCanceled), b.Status)
	require.NotNil(t, b.CanceledAt)
	assert.Equal(t, now, *b.CanceledAt)

	// cancelar duas vezes não é permitido
	err := Cancel(b, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestReschedule_MovesBookingAndCountsAttempt(t *testing.T) {
	now := time.Now()
	oldStart := now.Add(24 * time.Hour)
	newStart := now.Add(48 * time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	b := &models.Booking{
		Status:  string(StatusConfirmed),
		StartAt: oldStart,
		EndAt:   oldStart.Add(30 * time.Minute),
	}

	require.NoError(t, Reschedule(b, newStart, newEnd, now))
	assert.Equal(t, newStart, b.StartAt)
	assert.Equal(t, newEnd, b.EndAt)
	assert.Equal(t, 1, b.RescheduleClientCount)
	require.NotNil(t, b.LastRescheduledAt)
}

func TestMarkPendingPayment_FromDraft(t *testing.T) {
	b := &models.Booking{Status: string(StatusDraft)}

	require.NoError(t, MarkPendingPayment(b))
	assert.Equal(t, string(StatusPendingPayment), b.Status)

	// expirada não volta para pagamento
	b.Status = string(StatusExpired)
	err := MarkPendingPayment(b)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}
