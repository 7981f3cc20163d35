package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL срок жизни токена по умолчанию.
const DefaultTTL = 24 * time.Hour

// AccountClaims представляет данные JWT токена аккаунта. Идентификатор аккаунта лежит в `sub`.
type AccountClaims struct {
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет подписанные токены сессий. Состояния не хранит,
// поэтому отозвать выпущенный токен до истечения срока нельзя.
type Issuer struct {
	key    []byte
	ttl    time.Duration
	name   string
	now    func() time.Time
	parser *jwt.Parser
}

// NewIssuer создает Issuer.
//
// Параметры:
//   - key: ключ подписи HS256
//   - ttl: срок действия токена, при ttl <= 0 используется DefaultTTL
//   - opts: дополнительные настройки
//
// Возвращает:
//   - *Issuer: готовый к работе выпускающий
//   - error: ошибка, если ключ пустой
func NewIssuer(key []byte, ttl time.Duration, opts ...func(*Issuer)) (*Issuer, error) {
	if len(key) == 0 {
		return nil, errors.New("jwt signing key is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		key:  key,
		ttl:  ttl,
		name: "minurl",
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.name),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	return i, nil
}

// WithName задает значение `iss`.
func WithName(name string) func(*Issuer) {
	return func(i *Issuer) {
		if name != "" {
			i.name = name
		}
	}
}

// WithClock подменяет часы. Используется в тестах.
func WithClock(now func() time.Time) func(*Issuer) {
	return func(i *Issuer) {
		i.now = now
	}
}

// TTL срок действия выпускаемых токенов.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue создает JWT токен для аккаунта.
//
// Параметры:
//   - accountID: идентификатор аккаунта
//
// Возвращает:
//   - string: подписанный токен
//   - error: ошибка генерации токена
func (i *Issuer) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is empty")
	}
	now := i.now()
	claims := AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    i.name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("generating account jwt token: %w", err)
	}
	return token, nil
}

// Verify проверяет подпись, алгоритм, издателя и срок действия токена и возвращает идентификатор аккаунта.
//
// Возвращает:
//   - string: идентификатор аккаунта
//   - error: ErrTokenExpired если истек срок действия, ErrTokenInvalid в остальных случаях
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := new(AccountClaims)
	token, err := i.parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %s", ErrTokenInvalid, err.Error())
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
