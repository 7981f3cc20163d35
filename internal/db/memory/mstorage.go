package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// MStorage простое потокобезопасное key/value хранилище. Значения хранятся в виде JSON, поэтому
// наружу всегда отдаются копии, и изменить запись можно только через Set/Update.
type MStorage struct {
	data map[string][]byte
	m    sync.RWMutex
}

func NewMemStorage() *MStorage {
	return &MStorage{
		data: make(map[string][]byte),
	}
}

func (m *MStorage) Len() int {
	m.m.RLock()
	defer m.m.RUnlock()

	return len(m.data)
}

func (m *MStorage) IsExist(key string) bool {
	m.m.RLock()
	defer m.m.RUnlock()

	_, ok := m.data[key]
	return ok
}

// SetOptions настройки записи.
type SetOptions struct {
	Overwrite bool // Разрешает перезапись существующего ключа
}

// WithOverwrite разрешает перезаписать существующее значение.
func WithOverwrite() func(*SetOptions) {
	return func(o *SetOptions) {
		o.Overwrite = true
	}
}

func Get[T any](ctx context.Context, key string, m *MStorage) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get `%s`: %w", key, err)
	}

	m.m.RLock()
	defer m.m.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	var result T
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json by key `%s`: %w", key, err)
	}
	return &result, nil
}

// Set Сохраняет новые пары ключ/значение. Ключ обязан быть уникальным, иначе вернется ошибка ErrDuplicateKey.
// Проверка и запись выполняются под одной блокировкой.
func Set[T any](ctx context.Context, key string, val *T, m *MStorage, opts ...func(*SetOptions)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("set `%s`: %w", key, err)
	}

	var options SetOptions
	for _, opt := range opts {
		opt(&options)
	}

	bytes, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("failed to marshal json for object `%+v`: %w", val, err)
	}

	m.m.Lock()
	defer m.m.Unlock()

	if _, ok := m.data[key]; ok && !options.Overwrite {
		return ErrDuplicateKey
	}
	m.data[key] = bytes
	return nil
}

// Update атомарно изменяет запись по ключу функцией fn и возвращает новое значение.
// Если fn возвращает ошибку, запись остается без изменений.
func Update[T any](ctx context.Context, key string, m *MStorage, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("update `%s`: %w", key, err)
	}

	m.m.Lock()
	defer m.m.Unlock()

	raw, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	var val T
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json by key `%s`: %w", key, err)
	}
	if err := fn(&val); err != nil {
		return nil, err
	}
	bytes, err := json.Marshal(&val)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json for object `%+v`: %w", val, err)
	}
	m.data[key] = bytes
	return &val, nil
}

// Delete удаляет запись. Если ключа нет, возвращает ErrNotFound.
func Delete(ctx context.Context, key string, m *MStorage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete `%s`: %w", key, err)
	}

	m.m.Lock()
	defer m.m.Unlock()

	if _, ok := m.data[key]; !ok {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}

func GetAll[T any](ctx context.Context, m *MStorage) ([]T, error) {
	return FilterAll[T](ctx, m, func(T) bool { return true })
}

// FilterAll возвращает все записи, для которых fn вернула true.
func FilterAll[T any](ctx context.Context, m *MStorage, fn func(val T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	m.m.RLock()
	defer m.m.RUnlock()

	var result = make([]T, 0)
	for key, bytes := range m.data {
		var val T
		if err := json.Unmarshal(bytes, &val); err != nil {
			return nil, fmt.Errorf("failed to unmarshal json by key `%s`: %w", key, err)
		}
		if fn(val) {
			result = append(result, val)
		}
	}
	return result, nil
}
