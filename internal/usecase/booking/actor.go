package booking

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/andersonraduan/reserva-rapida-pt/internal/domain/booking"
	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// Actor identifica quem executa a operação (autorização na borda que é
// dona do booking store, não na UI).
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) isAdmin() bool {
	return a.Role == models.RoleSpaceAdmin || a.Role == models.RoleMasterAdmin
}

// canTouchBooking: cliente dono, profissional dono ou admin.
func canTouchBooking(
	ctx context.Context,
	repo domain.Repository,
	actor Actor,
	b *models.Booking,
) error {

	if actor.isAdmin() {
		return nil
	}

	if b.ClientUserID == actor.UserID {
		return nil
	}

	if actor.Role == models.RoleProfessional {
		pro, err := repo.GetProfessionalByUserID(ctx, actor.UserID)
		if err == nil && pro.ID == b.ProfessionalID {
			return nil
		}
	}

	return httperr.ErrBusiness("forbidden")
}
