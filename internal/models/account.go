package models

import "time"

// Account учетная запись владельца ссылок.
//
// Email является идентичностью аккаунта: хранится в нижнем регистре и уникален среди всех записей.
// Пароль в открытом виде никогда не сохраняется, только bcrypt хеш.
type Account struct {
	ID           string    `json:"id"           gorm:"primaryKey;size:36"`
	Email        string    `json:"email"        gorm:"uniqueIndex;size:320;not null"`
	Username     string    `json:"username"     gorm:"size:64;not null"`
	PasswordHash string    `json:"passwordHash" gorm:"size:72;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
