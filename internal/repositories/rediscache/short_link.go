// Package rediscache кеширует поиск ссылки по короткому коду (путь редиректа) в Redis.
//
// Стратегия cache-aside: чтение сначала из Redis, промах идет в основное хранилище и заполняет кеш.
// Удаление и неудачный инкремент вычищают ключ. Ошибки Redis не ломают запрос, а только логируются.
// Счетчик переходов в закешированной записи может быть устаревшим, для редиректа нужен только URL.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

const (
	keyPrefix  = "minurl:link:"
	DefaultTTL = time.Hour
)

// Backend основное хранилище ссылок.
type Backend interface {
	Create(ctx context.Context, link *models.ShortLink) error
	GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error)
	GetByID(ctx context.Context, id string) (*models.ShortLink, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error)
	Delete(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, code string) error
}

// ShortLinkRepo декоратор репозитория ссылок с кешем в Redis.
type ShortLinkRepo struct {
	Backend
	client Client
	ttl    time.Duration
	logger *logrus.Entry
}

// NewShortLinkRepo оборачивает backend кешем. ttl <= 0 означает DefaultTTL.
func NewShortLinkRepo(backend Backend, client Client, ttl time.Duration, logger *logrus.Logger) *ShortLinkRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ShortLinkRepo{
		Backend: backend,
		client:  client,
		ttl:     ttl,
		logger:  logger.WithField("module", "repository/rediscache/short_link"),
	}
}

func (r *ShortLinkRepo) GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error) {
	raw, err := r.client.Get(ctx, cacheKey(code))
	switch {
	case err == nil:
		var link models.ShortLink
		if jsonErr := json.Unmarshal([]byte(raw), &link); jsonErr == nil {
			return &link, nil
		}
		r.logger.Warnf("broken cache entry for %s, dropping", code)
		r.drop(ctx, code)
	case !errors.Is(err, ErrCacheMiss):
		r.logger.WithError(err).Warn("cache read failed")
	}

	link, err := r.Backend.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if data, jsonErr := json.Marshal(link); jsonErr == nil {
		if setErr := r.client.Set(ctx, cacheKey(code), string(data), r.ttl); setErr != nil {
			r.logger.WithError(setErr).Warn("cache write failed")
		}
	}
	return link, nil
}

func (r *ShortLinkRepo) Delete(ctx context.Context, id string) error {
	link, err := r.Backend.GetByID(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if delErr := r.Backend.Delete(ctx, id); delErr != nil {
		return delErr //nolint:wrapcheck
	}
	r.drop(ctx, link.ShortCode)
	return nil
}

func (r *ShortLinkRepo) IncrementClicks(ctx context.Context, code string) error {
	if err := r.Backend.IncrementClicks(ctx, code); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			r.drop(ctx, code)
		}
		return fmt.Errorf("cached increment: %w", err)
	}
	return nil
}

func (r *ShortLinkRepo) drop(ctx context.Context, code string) {
	if err := r.client.Del(ctx, cacheKey(code)); err != nil {
		r.logger.WithError(err).Warnf("cache invalidation failed for %s", code)
	}
}

func cacheKey(code string) string {
	return keyPrefix + code
}
