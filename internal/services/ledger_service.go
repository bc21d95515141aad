package services

import (
	"errors"

	"gorm.io/gorm"

	"moexbot/internal/apperrors"
	"moexbot/internal/models"
)

// ledgerService is the gorm-backed Ledger implementation.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new Ledger.
func NewLedgerService(db *gorm.DB) Ledger {
	return &ledgerService{db: db}
}

// EnsureUser creates the user record if absent
func (s *ledgerService) EnsureUser(id int64) (bool, error) {
	var user models.User
	err := s.db.First(&user, "telegram_id = ?", id).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	user = models.User{TelegramID: id}
	if err := s.db.Create(&user).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrLedgerWrite, err)
	}
	return true, nil
}

// InsertHolding appends one purchase lot
func (s *ledgerService) InsertHolding(h *models.StockHolding) (string, error) {
	if err := s.db.Create(h).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrLedgerWrite, err)
	}
	return h.ID, nil
}

// InsertCurrencyPurchase appends one confirmed conversion
func (s *ledgerService) InsertCurrencyPurchase(p *models.CurrencyPurchase) (string, error) {
	if err := s.db.Create(p).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrLedgerWrite, err)
	}
	return p.ID, nil
}

// HoldingsFor returns the owner's lots in insertion order
func (s *ledgerService) HoldingsFor(ownerID int64) ([]models.StockHolding, error) {
	var holdings []models.StockHolding
	// UUIDv7 ids are time-ordered, so this is insertion order.
	if err := s.db.Where("owner_id = ?", ownerID).Order("id").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return holdings, nil
}
