package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

type ShortLinkRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewShortLinkRepo(db *gorm.DB, logger *logrus.Logger) *ShortLinkRepo {
	return &ShortLinkRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sqlite/short_link"),
	}
}

// Create вставляет запись. Уникальный индекс по short_code делает вставку резервированием кода.
func (r *ShortLinkRepo) Create(ctx context.Context, link *models.ShortLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.WithError(err).Errorf("failed to create record %+v", *link)
		}
		return fmt.Errorf("failed to create short link: %w", convertErrorType(err))
	}
	return nil
}

func (r *ShortLinkRepo) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	return r.first(ctx, "short_code = ?", code)
}

func (r *ShortLinkRepo) GetByID(ctx context.Context, id string) (*models.ShortLink, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ShortLinkRepo) ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error) {
	var links = make([]models.ShortLink, 0)
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&links).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to list records of account %s", accountID)
		return nil, fmt.Errorf("failed to list short links: %w", convertErrorType(err))
	}
	return links, nil
}

func (r *ShortLinkRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ShortLink{})
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to delete record %s", id)
		return fmt.Errorf("failed to delete short link: %w", convertErrorType(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("short link %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// IncrementClicks UPDATE ... SET click_count = click_count + 1, без чтения записи.
func (r *ShortLinkRepo) IncrementClicks(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Model(&models.ShortLink{}).
		Where("short_code = ?", code).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to increment clicks of %s", code)
		return fmt.Errorf("failed to increment clicks: %w", convertErrorType(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("short link %s: %w", code, repositories.ErrNotFound)
	}
	return nil
}

func (r *ShortLinkRepo) first(ctx context.Context, query string, arg string) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := r.db.WithContext(ctx).Where(query, arg).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("short link %s: %w", arg, repositories.ErrNotFound)
		}
		r.logger.WithError(err).Errorf("failed to get record by `%s` %s", query, arg)
		return nil, fmt.Errorf("failed to get short link: %w", convertErrorType(err))
	}
	return &link, nil
}
