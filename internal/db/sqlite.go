package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fsdevblog/minurl/internal/models"
)

const sqliteSlowThreshold = 200 * time.Millisecond

func NewSQLite(dbPath string, l *logrus.Logger) (*gorm.DB, error) {
	conn, connErr := connectSQLite(dbPath, l)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if migrateErr := migrateSQLite(conn); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	return conn, nil
}

func connectSQLite(dbPath string, l *logrus.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		l.WithField("module", "gorm"),
		logger.Config{
			SlowThreshold:             sqliteSlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true, Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}

	// sqlite не умеет конкурентную запись, а для `:memory:` каждое соединение это отдельная база.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func migrateSQLite(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}, &models.ShortLink{}); err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	return nil
}
