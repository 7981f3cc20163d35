package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// hostnameRegex в соответствии с `RFC 1123` за исключением - исключает корневые доменные имена (без зоны).
var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9](-?[a-zA-Z0-9])*\.)+([a-zA-Z0-9](-?[a-zA-Z0-9])*)$`)

// LinkService реестр коротких ссылок: создание, список, удаление, учет переходов.
type LinkService struct {
	repo      LinkRepository
	allocator *CodeAllocator
	now       func() time.Time
}

// NewLinkService создает реестр ссылок.
//
// Параметры:
//   - repo: хранилище ссылок
//   - allocator: выдает уникальные коды
//
// Возвращает:
//   - *LinkService: сервис
func NewLinkService(repo LinkRepository, allocator *CodeAllocator) *LinkService {
	return &LinkService{
		repo:      repo,
		allocator: allocator,
		now:       time.Now,
	}
}

// Create создает короткую ссылку для аккаунта. Код резервируется одной вставкой полной записи,
// поэтому два конкурентных вызова не получат один и тот же код.
func (s *LinkService) Create(ctx context.Context, accountID, rawURL string) (*models.ShortLink, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: generate uuid: %s", ErrUnknown, err.Error())
	}

	link := models.ShortLink{
		ID:          id.String(),
		OriginalURL: rawURL,
		AccountID:   accountID,
		CreatedAt:   s.now().UTC(),
	}

	_, allocErr := s.allocator.Allocate(ctx, func(ctx context.Context, code string) error {
		link.ShortCode = code
		return s.repo.Create(ctx, &link) //nolint:wrapcheck
	})
	if allocErr != nil {
		if errors.Is(allocErr, ErrAllocationExhausted) || errors.Is(allocErr, ErrUnknown) {
			return nil, allocErr
		}
		return nil, fmt.Errorf("%w: create link: %s", ErrUnknown, allocErr.Error())
	}
	return &link, nil
}

// ListFor возвращает ссылки аккаунта от новых к старым. Пустой список не ошибка.
func (s *LinkService) ListFor(ctx context.Context, accountID string) ([]models.ShortLink, error) {
	links, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: list links: %s", ErrUnknown, err.Error())
	}
	if links == nil {
		links = []models.ShortLink{}
	}
	return links, nil
}

// Get возвращает ссылку владельцу.
func (s *LinkService) Get(ctx context.Context, accountID, linkID string) (*models.ShortLink, error) {
	return s.owned(ctx, accountID, linkID)
}

// Delete удаляет ссылку. Несуществующая ссылка -> ErrNotFound, чужая -> ErrForbidden.
// Проверка существования идет раньше проверки владельца.
func (s *LinkService) Delete(ctx context.Context, accountID, linkID string) error {
	link, err := s.owned(ctx, accountID, linkID)
	if err != nil {
		return err
	}
	if delErr := s.repo.Delete(ctx, link.ID); delErr != nil {
		if errors.Is(delErr, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete link: %s", ErrUnknown, delErr.Error())
	}
	return nil
}

// Resolve находит ссылку по короткому коду.
func (s *LinkService) Resolve(ctx context.Context, code string) (*models.ShortLink, error) {
	return s.allocator.Resolve(ctx, code)
}

// RecordClick увеличивает счетчик переходов ссылки с кодом code.
func (s *LinkService) RecordClick(ctx context.Context, code string) error {
	if err := s.repo.IncrementClicks(ctx, code); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: record click: %s", ErrUnknown, err.Error())
	}
	return nil
}

func (s *LinkService) owned(ctx context.Context, accountID, linkID string) (*models.ShortLink, error) {
	if _, parseErr := uuid.Parse(linkID); parseErr != nil {
		return nil, ErrNotFound
	}
	link, err := s.repo.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get link: %s", ErrUnknown, err.Error())
	}
	if link.AccountID != accountID {
		return nil, ErrForbidden
	}
	return link, nil
}

// ValidateURL проверяет, что строка является абсолютным http(s) URL с корректным хостом.
// Фрагмент и неэкранированные символы пути допустимы, сама строка хранится без изменений.
func ValidateURL(rawURL string) (*url.URL, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || !parsedURL.IsAbs() {
		return nil, fmt.Errorf("%w: invalid URL format", ErrInvalidURL)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: URL must have http or https scheme", ErrInvalidURL)
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: URL must have a host", ErrInvalidURL)
	}

	hostname := parsedURL.Hostname()
	if hostname != "localhost" && net.ParseIP(hostname) == nil && !hostnameRegex.MatchString(hostname) {
		return nil, fmt.Errorf("%w: invalid hostname", ErrInvalidURL)
	}

	return parsedURL, nil
}
