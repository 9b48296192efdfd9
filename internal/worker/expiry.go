package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/andersonraduan/reserva-rapida-pt/internal/logger"
	ucPayment "github.com/andersonraduan/reserva-rapida-pt/internal/usecase/payment"
)

const TypePaymentExpire = "payment:expire"

type PaymentExpirePayload struct {
	PaymentID string `json:"payment_id"`
}

// ======================================================
// ENQUEUER
// ======================================================

type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(redisOpt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpt)}
}

// EnqueuePaymentExpiry agenda a expiração do pagamento para o instante dado.
func (e *Enqueuer) EnqueuePaymentExpiry(
	ctx context.Context,
	paymentID uuid.UUID,
	at time.Time,
) error {

	payload, err := json.Marshal(PaymentExpirePayload{PaymentID: paymentID.String()})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypePaymentExpire, payload)
	_, err = e.client.EnqueueContext(ctx, task, asynq.ProcessAt(at))
	return err
}

var _ ucPayment.Enqueuer = (*Enqueuer)(nil)

// ======================================================
// WORKER
// ======================================================

// InitExpiryWorker sobe o worker assíncrono em background.
func InitExpiryWorker(redisOpt asynq.RedisClientOpt, expireUC *ucPayment.Expire) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentExpire, handlePaymentExpire(expireUC))

	go func() {
		log := logger.Get()
		log.Info("starting expiry worker")

		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Error("expiry worker failed to start",
					zap.Int("attempt", attempts),
					zap.Error(err),
				)

				if attempts == maxAttempts {
					log.Fatal("expiry worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handlePaymentExpire(expireUC *ucPayment.Expire) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PaymentExpirePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}

		paymentID, err := uuid.Parse(payload.PaymentID)
		if err != nil {
			return err
		}

		return expireUC.Execute(ctx, paymentID)
	}
}
