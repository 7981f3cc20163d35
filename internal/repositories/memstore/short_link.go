package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/db/memory"
	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// ShortLinkRepo представляет собой репозиторий коротких ссылок в памяти.
// Записи хранятся по ключу ShortCode, так что вставка одновременно является резервированием кода.
type ShortLinkRepo struct {
	s *db.MemoryStorage
}

// NewShortLinkRepo создает новый экземпляр репозитория ссылок.
//
// Параметры:
//   - store: экземпляр хранилища в памяти
//
// Возвращает:
//   - *ShortLinkRepo: инициализированный репозиторий
func NewShortLinkRepo(store *db.MemoryStorage) *ShortLinkRepo {
	return &ShortLinkRepo{s: store}
}

// Create создает новую запись. Если код уже занят, возвращает repositories.ErrDuplicateKey.
func (r *ShortLinkRepo) Create(ctx context.Context, link *models.ShortLink) error {
	if err := memory.Set[models.ShortLink](ctx, link.ShortCode, link, r.s.Links); err != nil {
		return fmt.Errorf("failed to create short link: %w", convertErrorType(err))
	}
	return nil
}

// GetByShortCode получает ссылку по короткому коду.
func (r *ShortLinkRepo) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	link, err := memory.Get[models.ShortLink](ctx, code, r.s.Links)
	if err != nil {
		return nil, fmt.Errorf("failed to get short link by code %s: %w", code, convertErrorType(err))
	}
	return link, nil
}

// GetByID получает ссылку по идентификатору. Полный проход по хранилищу.
func (r *ShortLinkRepo) GetByID(ctx context.Context, id string) (*models.ShortLink, error) {
	data, err := memory.FilterAll[models.ShortLink](ctx, r.s.Links, func(val models.ShortLink) bool {
		return val.ID == id
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get short link by id %s: %w", id, convertErrorType(err))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("short link with id %s: %w", id, repositories.ErrNotFound)
	}
	return &data[0], nil
}

// ListByAccount возвращает ссылки аккаунта, новые первыми.
func (r *ShortLinkRepo) ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error) {
	data, err := memory.FilterAll[models.ShortLink](ctx, r.s.Links, func(val models.ShortLink) bool {
		return val.AccountID == accountID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list short links of %s: %w", accountID, convertErrorType(err))
	}
	slices.SortFunc(data, func(a, b models.ShortLink) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return data, nil
}

// Delete удаляет ссылку по идентификатору.
func (r *ShortLinkRepo) Delete(ctx context.Context, id string) error {
	link, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if delErr := memory.Delete(ctx, link.ShortCode, r.s.Links); delErr != nil {
		return fmt.Errorf("failed to delete short link %s: %w", id, convertErrorType(delErr))
	}
	return nil
}

// IncrementClicks атомарно увеличивает счетчик переходов.
func (r *ShortLinkRepo) IncrementClicks(ctx context.Context, code string) error {
	_, err := memory.Update[models.ShortLink](ctx, code, r.s.Links, func(link *models.ShortLink) error {
		link.ClickCount++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment clicks of %s: %w", code, convertErrorType(err))
	}
	return nil
}
