package memstore

import (
	"context"
	"fmt"

	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/db/memory"
	"github.com/fsdevblog/minurl/internal/models"
)

// AccountRepo репозиторий аккаунтов в памяти. Ключ записи - email, поэтому уникальность
// идентичности обеспечивается самим хранилищем.
type AccountRepo struct {
	s *db.MemoryStorage
}

func NewAccountRepo(store *db.MemoryStorage) *AccountRepo {
	return &AccountRepo{s: store}
}

// Create сохраняет аккаунт. Если email занят, возвращает repositories.ErrDuplicateKey.
func (a *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	if err := memory.Set[models.Account](ctx, account.Email, account, a.s.Accounts); err != nil {
		return fmt.Errorf("failed to create account: %w", convertErrorType(err))
	}
	return nil
}

func (a *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := memory.Get[models.Account](ctx, email, a.s.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", convertErrorType(err))
	}
	return account, nil
}
