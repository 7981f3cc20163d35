// Package repositories описывает ошибки, общие для всех хранилищ аккаунтов и ссылок.
// Каждая реализация приводит к ним ошибки своего драйвера.
package repositories

import "errors"

var (
	// ErrNotFound нет аккаунта или ссылки с таким ключом.
	ErrNotFound = errors.New("[repository]: record not found")
	// ErrDuplicateKey занят email аккаунта или короткий код ссылки.
	ErrDuplicateKey = errors.New("[repository]: duplicate key")
	ErrUnknown      = errors.New("[repository]: unknown error")
)
