package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/minurl/internal/models"
)

type AccountRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Entry
}

func NewAccountRepo(pool *pgxpool.Pool, logger *logrus.Logger) *AccountRepo {
	return &AccountRepo{
		pool:   pool,
		logger: logger.WithField("module", "repository/postgres/account"),
	}
}

const insertAccountSQL = `
INSERT INTO accounts (id, email, username, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`

func (a *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	_, err := a.pool.Exec(ctx, insertAccountSQL,
		account.ID, account.Email, account.Username, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", convertErrorType(err))
	}
	return nil
}

const selectAccountByEmailSQL = `
SELECT id, email, username, password_hash, created_at
FROM accounts
WHERE email = $1`

func (a *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := a.pool.QueryRow(ctx, selectAccountByEmailSQL, email).Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash, &account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", convertErrorType(err))
	}
	return &account, nil
}
