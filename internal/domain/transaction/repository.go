package transaction

import (
	"context"

	"github.com/google/uuid"
)

// Log is the append-only transaction history. Entries are never updated or
// deleted once written.
type Log interface {
	// Append durably persists the record. Fails with ErrDuplicateTransaction
	// if an entry with the same ID was already written.
	Append(ctx context.Context, tx *Transaction) error

	// CountForAccount counts entries where the display name appears as source
	// or destination, filtered by currency.
	CountForAccount(ctx context.Context, displayName, currency string) (int64, error)

	// PageForAccount returns one page of entries for the display name, newest
	// first. Pages are 1-indexed; out-of-range pages yield an empty slice.
	PageForAccount(ctx context.Context, displayName, currency string, page, pageSize int) ([]*Transaction, error)
}

// ErrDuplicateTransaction indicates an ID collision on append
type ErrDuplicateTransaction struct {
	ID uuid.UUID
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate transaction: " + e.ID.String()
}

// Is matches any ErrDuplicateTransaction when the target carries a nil ID
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}
