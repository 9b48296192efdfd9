package db

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// SeedDemo cria contas e calendários de demonstração (idempotente).
// Útil para ambientes de teste; nunca ligar em produção.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		client := models.User{
			Name:         "Ana Silva",
			Email:        "ana@exemplo.pt",
			PasswordHash: string(hash),
			Phone:        "+351912345678",
			Role:         models.RoleClient,
		}
		proUser := models.User{
			Name:         "João Barber",
			Email:        "joao@exemplo.pt",
			PasswordHash: string(hash),
			Phone:        "+351987654321",
			Role:         models.RoleProfessional,
		}
		admin := models.User{
			Name:         "Admin Master",
			Email:        "admin@exemplo.pt",
			PasswordHash: string(hash),
			Phone:        "+351933222111",
			Role:         models.RoleMasterAdmin,
		}

		for _, u := range []*models.User{&client, &proUser, &admin} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		pro := models.Professional{
			UserID:                    proUser.ID,
			Name:                      proUser.Name,
			Timezone:                  "Europe/Lisbon",
			MultibancoExpirationHours: 24,
		}
		if err := tx.Create(&pro).Error; err != nil {
			return err
		}

		services := []models.Service{
			{ProfessionalID: pro.ID, Name: "Corte de Cabelo", DurationMin: 30, Price: 12.50, Active: true},
			{ProfessionalID: pro.ID, Name: "Barba", DurationMin: 30, Price: 10.00, Active: true},
		}
		if err := tx.Create(&services).Error; err != nil {
			return err
		}

		// segunda a sábado, 09:00–18:00
		workweek := datatypes.NewJSONType([]models.Interval{
			{Start: "09:00", End: "18:00"},
		})
		for weekday := 1; weekday <= 6; weekday++ {
			rule := models.AvailabilityRule{
				ProfessionalID: pro.ID,
				Weekday:        weekday,
				Intervals:      workweek,
				Timezone:       "Europe/Lisbon",
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
