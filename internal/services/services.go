package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fsdevblog/minurl/internal/codes"
	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/repositories/memstore"
	"github.com/fsdevblog/minurl/internal/repositories/postgres"
	"github.com/fsdevblog/minurl/internal/repositories/rediscache"
	"github.com/fsdevblog/minurl/internal/repositories/sqlite"
)

type ServiceType string

const (
	ServiceTypePostgres ServiceType = "postgres"
	ServiceTypeSQLite   ServiceType = "sqlite"
	ServiceTypeInMemory ServiceType = "inMemory"
)

// Services набор сервисов приложения.
type Services struct {
	AccountService *AccountService
	LinkService    *LinkService
	PingService    *PingService
}

// FactoryParams параметры сборки сервисов.
type FactoryParams struct {
	Conn       any         // *pgxpool.Pool, *gorm.DB или *db.MemoryStorage
	Type       ServiceType // Тип хранилища
	Logger     *zap.Logger
	SQLLogger  *logrus.Logger
	Cache      rediscache.Client // Необязательный кеш редиректов
	CacheTTL   time.Duration
	CodeLength int
	MaxRetries int
	BcryptCost int
}

type storage struct {
	accounts AccountRepository
	links    LinkRepository
	pinger   Pinger
}

// Factory собирает сервисы поверх выбранного хранилища.
func Factory(params FactoryParams) (*Services, error) {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.SQLLogger == nil {
		params.SQLLogger = logrus.New()
	}

	store, err := newStorage(params)
	if err != nil {
		return nil, err
	}

	pingers := map[string]Pinger{"storage": store.pinger}
	links := store.links
	if params.Cache != nil {
		links = rediscache.NewShortLinkRepo(store.links, params.Cache, params.CacheTTL, params.SQLLogger)
		pingers["cache"] = params.Cache
	}

	length := params.CodeLength
	if length == 0 {
		length = codes.DefaultLength
	}
	gen, err := codes.New(length)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}

	accounts, err := NewAccountService(store.accounts, params.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("account service: %w", err)
	}

	allocator := NewCodeAllocator(gen, links, params.MaxRetries, params.Logger)
	return &Services{
		AccountService: accounts,
		LinkService:    NewLinkService(links, allocator),
		PingService:    NewPingService(pingers),
	}, nil
}

func newStorage(params FactoryParams) (*storage, error) {
	switch params.Type {
	case ServiceTypePostgres:
		pool, ok := params.Conn.(*pgxpool.Pool)
		if !ok {
			return nil, errors.New("invalid connection type. expected *pgxpool.Pool")
		}
		return &storage{
			accounts: postgres.NewAccountRepo(pool, params.SQLLogger),
			links:    postgres.NewShortLinkRepo(pool, params.SQLLogger),
			pinger:   pool,
		}, nil
	case ServiceTypeSQLite:
		gormDB, ok := params.Conn.(*gorm.DB)
		if !ok {
			return nil, errors.New("invalid connection type. expected *gorm.DB")
		}
		return &storage{
			accounts: sqlite.NewAccountRepo(gormDB, params.SQLLogger),
			links:    sqlite.NewShortLinkRepo(gormDB, params.SQLLogger),
			pinger:   gormPinger(gormDB),
		}, nil
	case ServiceTypeInMemory:
		mem, ok := params.Conn.(*db.MemoryStorage)
		if !ok {
			return nil, errors.New("invalid connection type. expected *db.MemoryStorage")
		}
		return &storage{
			accounts: memstore.NewAccountRepo(mem),
			links:    memstore.NewShortLinkRepo(mem),
			pinger:   PingerFunc(func(context.Context) error { return nil }),
		}, nil
	default:
		return nil, fmt.Errorf("unknown service type: %s", params.Type)
	}
}

func gormPinger(gormDB *gorm.DB) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return fmt.Errorf("get sql db: %w", err)
		}
		return sqlDB.PingContext(ctx) //nolint:wrapcheck
	})
}
