package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/andersonraduan/reserva-rapida-pt/internal/audit"
	"github.com/andersonraduan/reserva-rapida-pt/internal/cache"
	"github.com/andersonraduan/reserva-rapida-pt/internal/config"
	dbpkg "github.com/andersonraduan/reserva-rapida-pt/internal/db"
	"github.com/andersonraduan/reserva-rapida-pt/internal/infra/repository"
	"github.com/andersonraduan/reserva-rapida-pt/internal/logger"
	"github.com/andersonraduan/reserva-rapida-pt/internal/routes"
	ucPayment "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/payment"
	"github.com/andersonraduan/reserva-rapida-pt/internal/worker"
)

func main() {

	logger.Init()
	log := logger.Get()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := cache.NewClient(cfg)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	enqueuer := worker.NewEnqueuer(redisOpt)

	// worker de expiração de pagamentos roda no mesmo processo
	bookingRepo := repository.NewBookingGormRepository(db)
	auditDispatcher := audit.NewDispatcher(audit.New(db))
	expireUC := ucPayment.NewExpire(bookingRepo, auditDispatcher)
	worker.InitExpiryWorker(redisOpt, expireUC)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, rdb, enqueuer)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
