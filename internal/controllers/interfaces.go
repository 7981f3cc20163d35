package controllers

import (
	"context"
	"time"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/services"
)

//go:generate mockgen -source=interfaces.go -destination=mocksctrl/store.go -package=mocksctrl

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// AccountStore регистрация и проверка учетных данных.
type AccountStore interface {
	Register(ctx context.Context, params services.SignupParams) (*models.Account, error)
	Verify(ctx context.Context, email, password string) (*models.Account, error)
}

// TokenIssuer выпускает и проверяет bearer токены.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

// LinkStore реестр коротких ссылок.
type LinkStore interface {
	// Create создает ссылку для аккаунта.
	Create(ctx context.Context, accountID, rawURL string) (*models.ShortLink, error)
	ListFor(ctx context.Context, accountID string) ([]models.ShortLink, error)
	Get(ctx context.Context, accountID, linkID string) (*models.ShortLink, error)
	Delete(ctx context.Context, accountID, linkID string) error
	// Resolve находит ссылку по короткому коду.
	Resolve(ctx context.Context, code string) (*models.ShortLink, error)
	// RecordClick учитывает переход по коду.
	RecordClick(ctx context.Context, code string) error
}
