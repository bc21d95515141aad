package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moexbot/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique telegram id.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithID(t, db, 100000+nextID())
}

// CreateTestUserWithID creates a user with the given telegram id.
func CreateTestUserWithID(t *testing.T, db *gorm.DB, telegramID int64) *models.User {
	t.Helper()

	user := &models.User{TelegramID: telegramID}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHolding creates one purchase lot for the given owner.
func CreateTestHolding(t *testing.T, db *gorm.DB, ownerID int64, ticker string, quantity int64, unitPrice string) *models.StockHolding {
	t.Helper()

	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		t.Fatalf("invalid unit price fixture %q: %v", unitPrice, err)
	}

	holding := &models.StockHolding{
		OwnerID:      ownerID,
		Ticker:       ticker,
		Quantity:     quantity,
		UnitPrice:    price,
		PurchaseDate: time.Now(),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}
