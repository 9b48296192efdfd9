package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	"github.com/andersonraduan/reserva-rapida-pt/internal/config"
	"github.com/andersonraduan/reserva-rapida-pt/internal/handlers"
	infraRepo "github.com/andersonraduan/reserva-rapida-pt/internal/infra/repository"
	"github.com/andersonraduan/reserva-rapida-pt/internal/middleware"
	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
	"github.com/andersonraduan/reserva-rapida-pt/internal/payments"
	"github.com/andersonraduan/reserva-rapida-pt/internal/tokens"
	ucBooking "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/booking"
	ucPayment "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/payment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	rdb *redis.Client,
	enqueuer ucPayment.Enqueuer,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	rescheduleStore := tokens.NewRescheduleStore(rdb, tokens.DefaultTTL)
	checkoutProvider := payments.NewSimulatedCheckout(cfg.PublicBaseURL)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)
	reserveUC := ucBooking.NewReserve(bookingRepo, auditDispatcher)
	cancelUC := ucBooking.NewCancel(bookingRepo, auditDispatcher)
	rescheduleUC := ucBooking.NewReschedule(bookingRepo, auditDispatcher)

	rescheduleLinkUC := ucBooking.NewRescheduleLink(
		bookingRepo,
		rescheduleStore,
		auditDispatcher,
	)

	// ======================================================
	// 🧠 USE CASES — PAYMENTS
	// ======================================================
	initiatePaymentUC := ucPayment.NewInitiate(
		bookingRepo,
		checkoutProvider,
		enqueuer,
		auditDispatcher,
	)

	settlePaymentUC := ucPayment.NewSettle(bookingRepo, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	professionalHandler := handlers.NewProfessionalHandler(db, availabilityUC)
	serviceHandler := handlers.NewServiceHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	configHandler := handlers.NewConfigHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		db,
		reserveUC,
		cancelUC,
		rescheduleUC,
		rescheduleLinkUC,
	)

	paymentHandler := handlers.NewPaymentHandler(
		db,
		initiatePaymentUC,
		settlePaymentUC,
	)

	// ======================================================
	// 🔗 LINK DE REAGENDAMENTO (SEM SESSÃO)
	// ======================================================
	r.GET("/r/:token", bookingHandler.ResolveRescheduleLink)
	r.POST("/r/:token", bookingHandler.ConsumeRescheduleLink)

	// destino da URL de checkout simulado
	r.GET("/payments/simulated/:id", paymentHandler.SimulatedCheckoutPage)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api/v1")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🌐 VITRINE PÚBLICA
		// ------------------------------
		api.GET("/professionals", professionalHandler.List)
		api.GET("/professionals/:id", professionalHandler.Get)
		api.GET("/professionals/:id/services", professionalHandler.ListServices)
		api.GET("/professionals/:id/availability", professionalHandler.Availability)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
			secured.POST("/bookings/:id/reschedule-link", bookingHandler.GenerateRescheduleLink)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.POST("/payments/initiate", paymentHandler.Initiate)
			secured.POST("/payments/:id/confirm", paymentHandler.Confirm)
			secured.GET("/payments/:id", paymentHandler.Get)

			// ------------------------------
			// ÁREA DO PROFISSIONAL
			// ------------------------------
			pro := secured.Group("/me")
			pro.Use(middleware.RequireRole(models.RoleProfessional))
			{
				pro.GET("/services", serviceHandler.ListMine)
				pro.POST("/services", serviceHandler.Create)
				pro.PATCH("/services/:id", serviceHandler.Update)
				pro.DELETE("/services/:id", serviceHandler.Delete)

				pro.GET("/availability-rules", availabilityHandler.GetRules)
				pro.PUT("/availability-rules", availabilityHandler.UpdateRules)

				pro.GET("/availability-exceptions", availabilityHandler.ListExceptions)
				pro.POST("/availability-exceptions", availabilityHandler.CreateException)
				pro.DELETE("/availability-exceptions/:id", availabilityHandler.DeleteException)
			}

			// ------------------------------
			// ADMIN — CONFIG GLOBAL
			// ------------------------------
			admin := secured.Group("/config")
			admin.Use(middleware.RequireRole(models.RoleMasterAdmin))
			{
				admin.GET("", configHandler.Get)
				admin.PUT("", configHandler.Update)
			}
		}
	}
}
