package models

import "github.com/shopspring/decimal"

// CurrencyPurchase records a confirmed RUB→USD conversion. Immutable;
// created only after the user explicitly confirms the computed amount.
type CurrencyPurchase struct {
	Base
	OwnerID   int64           `gorm:"not null;index" json:"owner_id"`
	UsdAmount decimal.Decimal `gorm:"column:dollar_purchase;type:decimal(20,2);not null" json:"usd_amount"`

	Owner User `gorm:"foreignKey:OwnerID;references:TelegramID" json:"-"`
}

// TableName keeps the original table name.
func (CurrencyPurchase) TableName() string { return "currency" }
