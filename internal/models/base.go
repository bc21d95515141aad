package models

import (
	"time"

	"gorm.io/gorm"

	"moexbot/internal/uuid"
)

// Base contains common columns for append-only ledger records.
// There is no UpdatedAt/DeletedAt: records are immutable once created.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
