package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fsdevblog/minurl/internal/codes"
	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// DefaultMaxRetries количество попыток выделить код по умолчанию.
const DefaultMaxRetries = 5

// ReserveFunc атомарно закрепляет код за новой записью. Если код уже занят,
// должна вернуть repositories.ErrDuplicateKey.
type ReserveFunc func(ctx context.Context, code string) error

// CodeAllocator выдает уникальные короткие коды и разрешает код в ссылку.
type CodeAllocator struct {
	gen        *codes.Generator
	repo       LinkRepository
	maxRetries int
	logger     *zap.Logger
}

// NewCodeAllocator создает аллокатор. maxRetries <= 0 означает DefaultMaxRetries.
func NewCodeAllocator(gen *codes.Generator, repo LinkRepository, maxRetries int, logger *zap.Logger) *CodeAllocator {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeAllocator{
		gen:        gen,
		repo:       repo,
		maxRetries: maxRetries,
		logger:     logger.Named("allocator"),
	}
}

// Allocate генерирует код и резервирует его через reserve. При коллизии пробует новый код,
// но не более maxRetries раз, после чего возвращает ErrAllocationExhausted.
// Другие ошибки reserve возвращаются как есть.
func (a *CodeAllocator) Allocate(ctx context.Context, reserve ReserveFunc) (string, error) {
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		code, err := a.gen.Next()
		if err != nil {
			return "", fmt.Errorf("%w: generate code: %s", ErrUnknown, err.Error())
		}

		reserveErr := reserve(ctx, code)
		if reserveErr == nil {
			return code, nil
		}
		if !errors.Is(reserveErr, repositories.ErrDuplicateKey) {
			return "", reserveErr
		}
		a.logger.Debug("Short code collision", zap.String("code", code), zap.Int("attempt", attempt))
	}

	// Штатно сюда попасть нельзя: пространство кодов слишком мало для текущего числа ссылок.
	a.logger.Error("Short code space exhausted, increase CODE_LENGTH",
		zap.Int("codeLength", a.gen.Length()),
		zap.Int("alphabetSize", len(codes.Alphabet)),
		zap.Int("retries", a.maxRetries),
	)
	return "", ErrAllocationExhausted
}

// Resolve находит ссылку по коду. Код с символами вне алфавита или недопустимой длины сразу
// дает ErrNotFound. Длина текущего генератора не проверяется: выданные раньше коды неизменны.
func (a *CodeAllocator) Resolve(ctx context.Context, code string) (*models.ShortLink, error) {
	if !codes.Wellformed(code) {
		return nil, ErrNotFound
	}
	link, err := a.repo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: resolve %s: %s", ErrUnknown, code, err.Error())
	}
	return link, nil
}
