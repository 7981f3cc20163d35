package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fsdevblog/minurl/internal/config"
	"github.com/fsdevblog/minurl/internal/controllers"
	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/logs"
	"github.com/fsdevblog/minurl/internal/repositories/rediscache"
	"github.com/fsdevblog/minurl/internal/services"
	"github.com/fsdevblog/minurl/internal/tokens"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config   config.Config
	services *services.Services
	issuer   *tokens.Issuer
	closers  []func() error
	Logger   *zap.Logger
}

// Option настройка приложения.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	sqlLogger *logrus.Logger
}

// WithLogger подменяет логгер приложения.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSQLLogger подменяет логгер слоя хранилища.
func WithSQLLogger(logger *logrus.Logger) Option {
	return func(o *options) {
		o.sqlLogger = logger
	}
}

// New подключает хранилище, кеш и собирает сервисы по конфигурации.
func New(conf config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger, err := logs.New()
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		o.logger = logger
	}
	if o.sqlLogger == nil {
		o.sqlLogger = logs.NewSQLLogger(os.Stdout)
	}

	a := &App{config: conf, Logger: o.logger}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := a.initServices(ctx, o.sqlLogger); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init services: %w", err)
	}

	issuer, err := tokens.NewIssuer([]byte(conf.JWTSecret), conf.TokenTTL, tokens.WithName(conf.TokenIssuer))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}
	a.issuer = issuer

	return a, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Handler http обработчик со всеми маршрутами.
func (a *App) Handler() http.Handler {
	return controllers.SetupRouter(controllers.RouterParams{
		AccountService: a.services.AccountService,
		LinkService:    a.services.LinkService,
		PingService:    a.services.PingService,
		Tokens:         a.issuer,
		BaseURL:        a.config.BaseURL,
		CORSOrigins:    a.config.CORSOrigins,
		Logger:         a.Logger,
	})
}

// Run запускает web сервер и ждет SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.config.ServerAddress)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.config.ServerAddress, err)
	}
	return a.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем корректно останавливает сервер и закрывает хранилище.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	a.Logger.Info("Server started", zap.String("address", ln.Addr().String()))

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.Error("Server error", zap.Error(serverErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := a.Close(); err != nil {
		a.Logger.Error("Close storage error", zap.Error(err))
	}
	return serverErr
}

// Close закрывает соединения с хранилищем и кешем.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// initServices создает подключение к хранилищу и возвращает сервисный слой приложения.
func (a *App) initServices(ctx context.Context, sqlLogger *logrus.Logger) error {
	storageType := a.config.StorageType()

	conn, connErr := db.NewConnectionFactory(ctx, db.FactoryConfig{
		StorageType: db.StorageType(storageType),
		PostgresDSN: &a.config.DatabaseDSN,
		SQLitePath:  &a.config.SQLitePath,
		Logger:      a.Logger,
		SQLLogger:   sqlLogger,
	})
	if connErr != nil {
		return connErr //nolint:wrapcheck
	}
	a.addConnCloser(conn)

	params := services.FactoryParams{
		Conn:       conn,
		Type:       services.ServiceType(storageType),
		Logger:     a.Logger,
		SQLLogger:  sqlLogger,
		CacheTTL:   a.config.CacheTTL,
		CodeLength: a.config.CodeLength,
		MaxRetries: a.config.CodeMaxRetries,
		BcryptCost: a.config.BcryptCost,
	}

	if a.config.RedisAddr != "" {
		cache := rediscache.NewGoRedisClient(a.config.RedisAddr)
		a.closers = append(a.closers, cache.Close)
		if err := cache.Ping(ctx); err != nil {
			a.Logger.Warn("Redis is unavailable, requests will fall through to storage",
				zap.String("addr", a.config.RedisAddr), zap.Error(err))
		}
		params.Cache = cache
	}

	dbServices, err := services.Factory(params)
	if err != nil {
		return err //nolint:wrapcheck
	}
	a.services = dbServices

	a.Logger.Info("Storage initialized",
		zap.String("storage", string(storageType)),
		zap.Bool("redisCache", params.Cache != nil),
	)
	return nil
}

func (a *App) addConnCloser(conn any) {
	switch c := conn.(type) {
	case *pgxpool.Pool:
		a.closers = append(a.closers, func() error {
			c.Close()
			return nil
		})
	case *gorm.DB:
		a.closers = append(a.closers, func() error {
			sqlDB, err := c.DB()
			if err != nil {
				return fmt.Errorf("get sql db: %w", err)
			}
			return sqlDB.Close() //nolint:wrapcheck
		})
	}
}
