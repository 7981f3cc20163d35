package tokens

import "errors"

// Ошибки проверки токена. Обе означают, что сессии нет, причину наружу не отдаем.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
