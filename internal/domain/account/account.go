package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount    = errors.New("balance amount must not be negative")
	ErrEmptyDisplayName = errors.New("display name cannot be empty")
	ErrEmptyCurrency    = errors.New("currency code cannot be empty")
)

// Balance is one (account, currency) record. The account identity is the
// stable key; the display name is the last value seen on a mutation and is
// refreshed on every upsert.
type Balance struct {
	AccountID   uuid.UUID `json:"account_id"`
	DisplayName string    `json:"display_name"`
	Currency    string    `json:"currency"`
	Amount      int64     `json:"amount"` // Whole currency units, never negative
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBalance creates a balance record with the given parameters
func NewBalance(accountID uuid.UUID, displayName, currency string, amount int64) (*Balance, error) {
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}
	if currency == "" {
		return nil, ErrEmptyCurrency
	}
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	return &Balance{
		AccountID:   accountID,
		DisplayName: displayName,
		Currency:    currency,
		Amount:      amount,
		UpdatedAt:   time.Now(),
	}, nil
}

// Ranked is a leaderboard row: display name plus balance amount.
type Ranked struct {
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
}
