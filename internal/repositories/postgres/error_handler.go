package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fsdevblog/minurl/internal/repositories"
)

func convertErrorType(err error) error {
	if err == nil {
		return nil
	}

	var nativeErr = repositories.ErrUnknown

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		nativeErr = repositories.ErrDuplicateKey
	case errors.Is(err, pgx.ErrNoRows):
		nativeErr = repositories.ErrNotFound
	}
	return fmt.Errorf("%w: %s", nativeErr, err.Error())
}

func isDuplicate(err error) bool {
	return errors.Is(err, repositories.ErrDuplicateKey)
}
