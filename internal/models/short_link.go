package models

import "time"

// ShortLink структура модели хранения короткой ссылки.
type ShortLink struct {
	ID          string    `json:"id"          gorm:"primaryKey;size:36"`
	ShortCode   string    `json:"shortCode"   gorm:"uniqueIndex;size:16;not null"`
	OriginalURL string    `json:"originalURL" gorm:"not null"`
	AccountID   string    `json:"accountID"   gorm:"index:idx_short_links_account_created,priority:1;size:36;not null"`
	ClickCount  int64     `json:"clickCount"  gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"index:idx_short_links_account_created,priority:2"`
}
