package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AccountIDKey ключ идентификатора аккаунта в контексте gin.
	AccountIDKey = "accountID"

	bearerPrefix        = "Bearer "
	unauthenticatedText = "unauthenticated"
)

// TokenVerifier проверяет bearer токен и возвращает идентификатор аккаунта.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth пропускает дальше только запросы с валидным `Authorization: Bearer <token>`.
// Отсутствующий, просроченный и поддельный токен неразличимы для клиента: 401 с одним и тем же текстом.
func BearerAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			abortUnauthenticated(c, fmt.Errorf("bearer auth: missing token"))
			return
		}

		accountID, err := verifier.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			abortUnauthenticated(c, fmt.Errorf("bearer auth: %w", err))
			return
		}

		c.Set(AccountIDKey, accountID)
		c.Next()
	}
}

// AccountID возвращает идентификатор аккаунта, установленный BearerAuth.
func AccountID(c *gin.Context) (string, bool) {
	id := c.GetString(AccountIDKey)
	return id, id != ""
}

func abortUnauthenticated(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedText})
}
