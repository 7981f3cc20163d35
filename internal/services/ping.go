package services

import (
	"context"
	"fmt"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc адаптер функции к Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// PingService проверяет хранилище и, если подключен, кеш.
type PingService struct {
	conns map[string]Pinger
}

func NewPingService(conns map[string]Pinger) *PingService {
	return &PingService{conns: conns}
}

func (s *PingService) CheckConnection(ctx context.Context) error {
	for name, conn := range s.conns {
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", name, err)
		}
	}
	return nil
}
