package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// dummyPassword используется для выравнивания времени ответа, когда аккаунт не найден.
const dummyPassword = "minurl-timing-equalizer"

// SignupParams данные регистрации.
type SignupParams struct {
	Username string
	Email    string
	Password string
}

// AccountService хранилище учетных данных: регистрация и проверка пароля.
type AccountService struct {
	repo      AccountRepository
	cost      int
	dummyHash []byte
	now       func() time.Time
}

// NewAccountService создает сервис аккаунтов.
//
// Параметры:
//   - repo: хранилище аккаунтов
//   - cost: стоимость bcrypt, 0 означает bcrypt.DefaultCost
//
// Возвращает:
//   - *AccountService: сервис
//   - error: ошибка, если cost вне допустимого диапазона
func NewAccountService(repo AccountRepository, cost int) (*AccountService, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &AccountService{
		repo:      repo,
		cost:      cost,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает аккаунт. Если email уже занят, возвращает ErrConflict, запись не перезаписывается.
func (s *AccountService) Register(ctx context.Context, params SignupParams) (*models.Account, error) {
	email := NormalizeEmail(params.Email)
	username := strings.TrimSpace(params.Username)
	if email == "" || username == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return nil, fmt.Errorf("%w: hash password: %s", ErrUnknown, err.Error())
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: generate uuid: %s", ErrUnknown, err.Error())
	}

	account := models.Account{
		ID:           id.String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if createErr := s.repo.Create(ctx, &account); createErr != nil {
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: create account: %s", ErrUnknown, createErr.Error())
	}
	return &account, nil
}

// Verify проверяет пару email/пароль. Неизвестный email и неверный пароль неразличимы:
// оба случая возвращают ErrUnauthorized и оба выполняют одно сравнение bcrypt.
func (s *AccountService) Verify(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: get account: %s", ErrUnknown, err.Error())
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); cmpErr != nil {
		return nil, ErrUnauthorized
	}
	return account, nil
}
