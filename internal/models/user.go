package models

import "time"

// User represents a bot user, keyed by the opaque Telegram chat id.
// Created once on first interaction and never mutated afterwards.
type User struct {
	TelegramID int64     `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`

	Holdings  []StockHolding     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"holdings,omitempty"`
	Purchases []CurrencyPurchase `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"purchases,omitempty"`
}
