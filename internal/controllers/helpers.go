package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/minurl/internal/controllers/middlewares"
)

const (
	DefaultRequestTimeout = 3 * time.Second
)

var errNotJSON = errors.New("content type is not application/json")

// isJSONRequest Определяет тип запроса (json или нет) по заголовку Content-Type.
func isJSONRequest(ctx *gin.Context) bool {
	ct := ctx.Request.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/json")
}

// bindJSON разбирает JSON тело запроса в obj. Неизвестные поля и невалидные значения отклоняются.
func bindJSON(ctx *gin.Context, obj any) error {
	if !isJSONRequest(ctx) {
		return errNotJSON
	}
	if err := ctx.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("bind json: %w", err)
	}
	return nil
}

// requestContext контекст запроса с таймаутом DefaultRequestTimeout.
func requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
}

// accountID идентификатор аккаунта, установленный BearerAuth.
func accountID(ctx *gin.Context) string {
	id, _ := middlewares.AccountID(ctx)
	return id
}
