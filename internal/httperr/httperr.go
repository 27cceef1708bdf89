package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ======================================================
// BUSINESS ERROR → HTTP
// ======================================================

var kindStatus = map[Kind]int{
	KindValidation:        http.StatusUnprocessableEntity,
	KindNotFound:          http.StatusNotFound,
	KindUnauthorized:      http.StatusForbidden,
	KindConflict:          http.StatusConflict,
	KindInvalidTransition: http.StatusConflict,
	KindUnavailable:       http.StatusNotFound,
}

var kindMessage = map[Kind]string{
	KindValidation:        "Dados inválidos para o agendamento.",
	KindNotFound:          "Registro não encontrado.",
	KindUnauthorized:      "Operação não permitida para este usuário.",
	KindConflict:          "O horário foi alterado por outra operação. Tente novamente.",
	KindInvalidTransition: "O agendamento não pode mudar para este estado.",
	KindUnavailable:       "Nenhum horário disponível para o pedido.",
}

// StatusFor returns the HTTP status a given error is surfaced with.
func StatusFor(err error) int {
	var be BusinessError
	if errors.As(err, &be) {
		return kindStatus[be.Kind]
	}
	if IsStoreConflict(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// FromError writes err to the response. Conflicts and unknown errors are opaque.
func FromError(c *gin.Context, log zerolog.Logger, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		switch be.Kind {
		case KindConflict:
			log.Error().Err(err).Str("code", be.Code).Msg("unit of work rolled back")
			Write(c, http.StatusConflict, be.Code, kindMessage[be.Kind])
		default:
			log.Debug().Err(err).Str("code", be.Code).Msg("business error")
			c.JSON(kindStatus[be.Kind], HTTPError{
				Code:    be.Code,
				Message: kindMessage[be.Kind],
				Reasons: be.Reasons,
			})
		}
		return
	}

	if IsStoreConflict(err) {
		log.Error().Err(err).Msg("datastore conflict")
		Write(c, http.StatusConflict, "conflict", kindMessage[KindConflict])
		return
	}

	log.Error().Err(err).Msg("unexpected failure")
	Internal(c, "internal_error", "Erro interno.")
}
