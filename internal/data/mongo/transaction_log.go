package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cashpro-ledger/internal/domain/transaction"
)

const (
	// TransactionsCollectionName is the name of the transaction log collection
	TransactionsCollectionName = "transactions"
)

// TransactionLog implements the transaction.Log interface for MongoDB
type TransactionLog struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionLog creates a new MongoDB transaction log
func NewTransactionLog(logger *slog.Logger, db *mongo.Database) transaction.Log {
	return &TransactionLog{
		db:     db,
		logger: logger,
	}
}

// Append durably persists the record after checking for an ID collision.
// Returns ErrDuplicateTransaction if an entry with the same ID exists;
// duplicates must never land in the log twice.
func (l *TransactionLog) Append(ctx context.Context, tx *transaction.Transaction) error {
	collection := l.db.Collection(TransactionsCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"id": tx.ID})
	if err != nil {
		l.logger.Error("Failed to check for existing transaction",
			"transaction_id", tx.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing transaction: %w", err)
	}
	if count > 0 {
		return transaction.ErrDuplicateTransaction{ID: tx.ID}
	}

	if _, err := collection.InsertOne(ctx, tx); err != nil {
		l.logger.Error("Failed to append transaction",
			"transaction_id", tx.ID.String(),
			"error", err)
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// CountForAccount counts entries where the display name appears as source or
// destination, filtered by currency.
func (l *TransactionLog) CountForAccount(ctx context.Context, displayName, currency string) (int64, error) {
	collection := l.db.Collection(TransactionsCollectionName)

	count, err := collection.CountDocuments(ctx, accountFilter(displayName, currency))
	if err != nil {
		l.logger.Error("Failed to count transactions",
			"display_name", displayName,
			"currency", currency,
			"error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// PageForAccount retrieves one page of entries for the display name, sorted
// by timestamp in descending order. Out-of-range pages yield an empty slice.
func (l *TransactionLog) PageForAccount(ctx context.Context, displayName, currency string, page, pageSize int) ([]*transaction.Transaction, error) {
	if page < 1 {
		return nil, errors.New("page must be 1 or greater")
	}
	if pageSize < 1 {
		return nil, errors.New("page size must be 1 or greater")
	}

	collection := l.db.Collection(TransactionsCollectionName)

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := collection.Find(ctx, accountFilter(displayName, currency), opts)
	if err != nil {
		l.logger.Error("Failed to get transactions",
			"display_name", displayName,
			"currency", currency,
			"error", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*transaction.Transaction
	if err := cursor.All(ctx, &entries); err != nil {
		l.logger.Error("Failed to decode transactions",
			"display_name", displayName,
			"currency", currency,
			"error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return entries, nil
}

// accountFilter matches entries referencing the account as source or destination
func accountFilter(displayName, currency string) bson.M {
	return bson.M{
		"currency": currency,
		"$or": []bson.M{
			{"from": displayName},
			{"to": displayName},
		},
	}
}
