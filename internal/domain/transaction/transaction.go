package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a balance-changing event. It drives history-line
// formatting and is otherwise opaque.
type Kind string

const (
	KindTransfer    Kind = "transfer"     // Peer-to-peer payment
	KindAdminSet    Kind = "admin_set"    // Balance overwritten by an operator
	KindAdminCredit Kind = "admin_credit" // Administrative add
	KindAdminDebit  Kind = "admin_debit"  // Administrative subtract
)

// Transaction is an immutable record of one successful mutation. From is
// empty for administrative operations.
type Transaction struct {
	ID        uuid.UUID `json:"id" bson:"id"`
	From      string    `json:"from,omitempty" bson:"from,omitempty"`
	To        string    `json:"to" bson:"to"`
	Currency  string    `json:"currency" bson:"currency"`
	Amount    int64     `json:"amount" bson:"amount"` // Always positive
	Kind      Kind      `json:"kind" bson:"kind"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// New creates a transaction record stamped with a fresh ID and the current time
func New(from, to, currency string, amount int64, kind Kind) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Currency:  currency,
		Amount:    amount,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

const lineTimeLayout = "02.01.2006 15:04:05"

// FormattedLine renders the record as a single history line.
func (t *Transaction) FormattedLine() string {
	ts := t.Timestamp.Format(lineTimeLayout)

	switch t.Kind {
	case KindTransfer:
		return fmt.Sprintf("[%s] %s -> %s TRANSFER %d", ts, t.From, t.To, t.Amount)
	case KindAdminSet:
		return fmt.Sprintf("[%s] ADMIN SET %s %d", ts, t.To, t.Amount)
	case KindAdminCredit:
		return fmt.Sprintf("[%s] ADMIN CREDIT %s %d", ts, t.To, t.Amount)
	case KindAdminDebit:
		return fmt.Sprintf("[%s] ADMIN DEBIT %s %d", ts, t.To, t.Amount)
	default:
		return fmt.Sprintf("[%s] %s %s %s %d", ts, t.From, t.To, t.Kind, t.Amount)
	}
}
