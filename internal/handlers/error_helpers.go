package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andersonraduan/reserva-rapida-pt/internal/httperr"
	"github.com/andersonraduan/reserva-rapida-pt/internal/logger"
)

// Mensagens por código de negócio (voltadas ao cliente da API).
var businessMessages = map[string]string{
	"invalid_range":             "Intervalo de datas inválido.",
	"service_not_found":         "Serviço não encontrado.",
	"service_inactive":          "Serviço indisponível.",
	"professional_not_found":    "Profissional não encontrado.",
	"slot_no_longer_available":  "O horário escolhido já não está disponível.",
	"booking_not_found":         "Reserva não encontrada.",
	"payment_not_found":         "Pagamento não encontrado.",
	"token_not_found":           "Link inválido ou expirado.",
	"too_soon":                  "Horário demasiado próximo.",
	"outside_working_hours":     "Fora do horário de atendimento.",
	"reschedule_limit_reached":  "Limite de reagendamentos atingido.",
	"invalid_state":             "Operação não permitida no estado atual.",
	"invalid_payment_method":    "Método de pagamento inválido.",
	"too_late_for_multibanco":   "Demasiado tarde para pagamento por Multibanco.",
	"forbidden":                 "Sem permissão para esta operação.",
}

func logWarnTokenRevoke(err error) {
	logger.Get().Warn("failed to revoke reschedule token", zap.Error(err))
}

// writeError traduz erros de negócio do caso de uso para a resposta HTTP.
// Erros sem código de negócio viram 500 genérico (detalhe só no log).
func writeError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		logger.Get().Error("unhandled error", zap.Error(err))
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	msg := businessMessages[code]
	if msg == "" {
		msg = "Pedido inválido."
	}

	switch code {
	case "service_not_found", "professional_not_found",
		"booking_not_found", "payment_not_found", "token_not_found":
		httperr.NotFound(c, code, msg)

	case "slot_no_longer_available":
		httperr.Conflict(c, code, msg)

	case "forbidden":
		httperr.Forbidden(c, code, msg)

	default:
		httperr.BadRequest(c, code, msg)
	}
}
