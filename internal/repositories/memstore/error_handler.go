package memstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/minurl/internal/db/memory"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// convertErrorType приводит ошибки in-memory хранилища к ошибкам репозитория.
// Отмена контекста остается в цепочке, чтобы вызывающий мог ее распознать.
func convertErrorType(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memory.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateKey, err.Error())
	case errors.Is(err, memory.ErrNotFound):
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", repositories.ErrUnknown, err)
	default:
		return fmt.Errorf("%w: %s", repositories.ErrUnknown, err.Error())
	}
}
