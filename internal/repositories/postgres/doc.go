// Package postgres предоставляет реализацию репозиториев аккаунтов и ссылок для PostgreSQL (pgx).
//
// Все методы репозиториев преобразуют ошибки PostgreSQL в общие ошибки уровня репозитория
// с помощью convertErrorType:
//   - pgerrcode.UniqueViolation (23505) -> repositories.ErrDuplicateKey
//   - pgx.ErrNoRows -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
package postgres
