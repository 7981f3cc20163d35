package services

import (
	"context"

	"github.com/fsdevblog/minurl/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go -package=mocks

// AccountRepository описывает хранилище аккаунтов.
type AccountRepository interface {
	// Create сохраняет аккаунт. Занятый email -> repositories.ErrDuplicateKey.
	Create(ctx context.Context, account *models.Account) error
	// GetByEmail ищет аккаунт по нормализованному email.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// LinkRepository описывает хранилище коротких ссылок.
type LinkRepository interface {
	// Create сохраняет запись. Занятый код -> repositories.ErrDuplicateKey.
	Create(ctx context.Context, link *models.ShortLink) error
	GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error)
	GetByID(ctx context.Context, id string) (*models.ShortLink, error)
	// ListByAccount возвращает ссылки аккаунта, отсортированные по дате создания от новых к старым.
	ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error)
	Delete(ctx context.Context, id string) error
	// IncrementClicks атомарно увеличивает счетчик переходов на единицу.
	IncrementClicks(ctx context.Context, code string) error
}
