package services

import "errors"

var (
	ErrUnknown             = errors.New("[service]: unknown error")
	ErrNotFound            = errors.New("[service]: record not found")
	ErrConflict            = errors.New("[service]: already exists")
	ErrUnauthorized        = errors.New("[service]: invalid credentials")
	ErrForbidden           = errors.New("[service]: forbidden")
	ErrInvalidURL          = errors.New("[service]: invalid url")
	ErrValidation          = errors.New("[service]: validation failed")
	ErrAllocationExhausted = errors.New("[service]: short code allocation exhausted retries")
)
