// Package sqlite предоставляет реализацию репозиториев аккаунтов и ссылок поверх gorm и SQLite.
//
// Ошибки gorm преобразуются в ошибки уровня репозитория с помощью convertErrorType:
//   - gorm.ErrDuplicatedKey -> repositories.ErrDuplicateKey
//   - gorm.ErrRecordNotFound -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
package sqlite
