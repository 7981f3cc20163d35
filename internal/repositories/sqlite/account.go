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

type AccountRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewAccountRepo(db *gorm.DB, logger *logrus.Logger) *AccountRepo {
	return &AccountRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sqlite/account"),
	}
}

func (a *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	if err := a.db.WithContext(ctx).Create(account).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			a.logger.WithError(err).Errorf("failed to create account %s", account.ID)
		}
		return fmt.Errorf("failed to create account: %w", convertErrorType(err))
	}
	return nil
}

func (a *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		a.logger.WithError(err).Error("failed to get account by email")
		return nil, fmt.Errorf("failed to get account by email: %w", convertErrorType(err))
	}
	return &account, nil
}
