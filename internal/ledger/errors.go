package ledger

import (
	"errors"
	"fmt"
)

// Business-rule rejections. These are expected outcomes returned to the
// caller for user-facing messaging, never logged as system errors.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrSameAccount   = errors.New("cannot transfer to the same account")
)

// ErrInsufficientFunds indicates a debit or transfer exceeding the available
// balance. The operation leaves the ledger untouched.
type ErrInsufficientFunds struct {
	Available int64
	Requested int64
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: have %d, need %d", e.Available, e.Requested)
}

// Is matches any ErrInsufficientFunds when the target carries zero values
func (e ErrInsufficientFunds) Is(target error) bool {
	t, ok := target.(ErrInsufficientFunds)
	if !ok {
		return false
	}
	if t.Available == 0 && t.Requested == 0 {
		return true
	}
	return t == e
}
