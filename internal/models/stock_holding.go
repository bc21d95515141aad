package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockHolding is one purchase lot of a security. A repeat purchase of
// the same ticker creates a new lot; lots are never merged or updated.
type StockHolding struct {
	Base
	OwnerID      int64           `gorm:"not null;index" json:"owner_id"`
	Ticker       string          `gorm:"column:stock_id;not null" json:"ticker"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"unit_price"`
	PurchaseDate time.Time       `gorm:"not null" json:"purchase_date"`

	Owner User `gorm:"foreignKey:OwnerID;references:TelegramID" json:"-"`
}

// TableName keeps the original table name.
func (StockHolding) TableName() string { return "stocks" }
