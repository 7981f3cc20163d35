package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/minurl/internal/services"
)

// Тексты ответов. Внутренние подробности ошибки наружу не отдаются.
const (
	msgInvalidInput       = "invalid input"
	msgInvalidURL         = "invalid url"
	msgInvalidCredentials = "invalid email or password"
	msgForbidden          = "forbidden"
	msgNotFound           = "not found"
	msgConflict           = "account already exists"
	msgInternal           = "internal error"
)

type errorResponse struct {
	Message string `json:"message"`
}

// statusFor сопоставляет ошибку сервисного слоя ровно одной паре статус/сообщение.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidURL):
		return http.StatusBadRequest, msgInvalidURL
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, msgConflict
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// respondError отдает ошибку клиенту и прикладывает причину к контексту для логгера.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	status, message := statusFor(err)
	ctx.AbortWithStatusJSON(status, errorResponse{Message: message})
}

// respondBadRequest ответ на тело запроса, которое не удалось разобрать.
func respondBadRequest(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgInvalidInput})
}
