package db

import (
	"github.com/fsdevblog/minurl/internal/db/memory"
)

// MemoryStorage in-memory хранилище. Аккаунты и ссылки лежат в независимых пространствах ключей.
type MemoryStorage struct {
	Accounts *memory.MStorage
	Links    *memory.MStorage
}

func NewMemStorage() *MemoryStorage {
	return &MemoryStorage{
		Accounts: memory.NewMemStorage(),
		Links:    memory.NewMemStorage(),
	}
}
