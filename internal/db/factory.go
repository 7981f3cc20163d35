package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/fsdevblog/minurl/internal/db/migrations"
)

type StorageType string

const (
	StorageTypePostgres StorageType = "postgres"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeInMemory StorageType = "inMemory"
)

type FactoryConfig struct {
	StorageType StorageType
	PostgresDSN *string
	SQLitePath  *string
	// Logger логгер приложения, в него пишет мигратор.
	Logger *zap.Logger
	// SQLLogger логгер для запросов gorm.
	SQLLogger *logrus.Logger
}

// NewConnectionFactory открывает соединение с выбранным хранилищем и накатывает схему.
//
// Возвращает:
//   - *pgxpool.Pool для StorageTypePostgres
//   - *gorm.DB для StorageTypeSQLite
//   - *MemoryStorage для StorageTypeInMemory
func NewConnectionFactory(ctx context.Context, config FactoryConfig) (any, error) {
	switch config.StorageType {
	case StorageTypePostgres:
		if config.PostgresDSN == nil || *config.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is empty")
		}
		if migrateErr := migrations.Up(*config.PostgresDSN, config.Logger); migrateErr != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", migrateErr)
		}
		pool, err := NewPostgresConnection(ctx, *config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection: %w", err)
		}
		return pool, nil
	case StorageTypeSQLite:
		if config.SQLitePath == nil || *config.SQLitePath == "" {
			return nil, errors.New("sqlite path is empty")
		}
		sqlLogger := config.SQLLogger
		if sqlLogger == nil {
			sqlLogger = logrus.StandardLogger()
		}
		conn, err := NewSQLite(*config.SQLitePath, sqlLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite connection: %w", err)
		}
		return conn, nil
	case StorageTypeInMemory:
		return NewMemStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.StorageType)
	}
}
