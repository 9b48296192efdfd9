package tokens

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
)

const keyPrefix = "reschedule:"

// DefaultTTL é a validade do link de reagendamento.
const DefaultTTL = 7 * 24 * time.Hour

// RescheduleStore guarda tokens de reagendamento no redis com TTL.
// O token dá acesso a uma única reserva, sem sessão autenticada.
type RescheduleStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRescheduleStore(rdb *redis.Client, ttl time.Duration) *RescheduleStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RescheduleStore{rdb: rdb, ttl: ttl}
}

// Generate cria um token opaco apontando para a reserva.
func (s *RescheduleStore) Generate(ctx context.Context, bookingID uuid.UUID) (string, time.Time, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	expiresAt := time.Now().Add(s.ttl)

	if err := s.rdb.Set(ctx, keyPrefix+token, bookingID.String(), s.ttl).Err(); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Resolve devolve a reserva associada ao token, se ainda válido.
func (s *RescheduleStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return uuid.Nil, httperr.ErrBusiness("token_not_found")
	}
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, httperr.ErrBusiness("token_not_found")
	}

	return id, nil
}

// Revoke invalida o token após o uso.
func (s *RescheduleStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
