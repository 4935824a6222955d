package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store defines balance persistence keyed by (account identity, currency).
// A missing record reads as a zero balance; records are created on first
// upsert and never deleted.
type Store interface {
	// Get returns the balance for the pair, or 0 if no record exists.
	Get(ctx context.Context, accountID uuid.UUID, currency string) (int64, error)

	// GetByDisplayName returns the balance for the last-seen display name.
	// Returns ErrAccountNotFound if no record references that name, which is
	// distinct from an existing record holding zero.
	GetByDisplayName(ctx context.Context, displayName, currency string) (int64, error)

	// Upsert creates or overwrites the record, refreshing display name and
	// timestamp. Fails with ErrInvalidAmount for negative amounts.
	Upsert(ctx context.Context, accountID uuid.UUID, displayName, currency string, amount int64) error

	// Exists reports whether a record has ever been created for the pair.
	Exists(ctx context.Context, accountID uuid.UUID, currency string) (bool, error)

	// TopN returns up to n rows for the currency, descending by amount with a
	// deterministic insertion-order tie-break.
	TopN(ctx context.Context, currency string, n int) ([]Ranked, error)

	WithTx(tx pgx.Tx) Store
}

// ErrAccountNotFound indicates no balance record for the requested account
type ErrAccountNotFound struct {
	DisplayName string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.DisplayName
}

// Is matches any ErrAccountNotFound when the target carries no display name
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.DisplayName == "" || t.DisplayName == e.DisplayName
}
