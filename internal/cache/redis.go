package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/andersonraduan/reserva-rapida-pt/internal/config"
	"github.com/andersonraduan/reserva-rapida-pt/internal/logger"
)

func NewClient(cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Get().Fatal("failed to connect redis",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
	}

	return rdb
}
