// Package postgres provides the PostgreSQL implementation of the balance
// store. All balance rows live in a single table unique on
// (account_id, currency); mutation ordering is the ledger engine's concern.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cashpro-ledger/internal/domain/account"
	"github.com/cashpro-ledger/internal/platform/persistence"
)

// BalanceRepository implements the account.Store interface for PostgreSQL
type BalanceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Store {
	return &BalanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so multiple balance writes
// commit or roll back as a unit.
func (r *BalanceRepository) WithTx(tx pgx.Tx) account.Store {
	return &BalanceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Get returns the balance for the pair, or 0 when no record exists.
// Absence is a zero balance by definition, not an error.
func (r *BalanceRepository) Get(ctx context.Context, accountID uuid.UUID, currency string) (int64, error) {
	query := `
		SELECT balance
		FROM balances
		WHERE account_id = $1 AND currency = $2
	`

	var balance int64
	err := r.querier.QueryRow(ctx, query, accountID, currency).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		r.logger.Error("Failed to get balance", "account_id", accountID.String(), "currency", currency, "error", err)
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// GetByDisplayName returns the balance for the last-seen display name.
// Returns ErrAccountNotFound when no record references that name.
func (r *BalanceRepository) GetByDisplayName(ctx context.Context, displayName, currency string) (int64, error) {
	query := `
		SELECT balance
		FROM balances
		WHERE display_name = $1 AND currency = $2
		ORDER BY last_updated DESC
		LIMIT 1
	`

	var balance int64
	err := r.querier.QueryRow(ctx, query, displayName, currency).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, account.ErrAccountNotFound{DisplayName: displayName}
		}
		r.logger.Error("Failed to get balance by display name", "display_name", displayName, "currency", currency, "error", err)
		return 0, fmt.Errorf("failed to get balance by display name: %w", err)
	}

	return balance, nil
}

// Upsert creates or overwrites the record, refreshing the display name and
// timestamp. Negative amounts are rejected before touching the database.
func (r *BalanceRepository) Upsert(ctx context.Context, accountID uuid.UUID, displayName, currency string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("cannot store balance %d: %w", amount, account.ErrInvalidAmount)
	}

	query := `
		INSERT INTO balances (account_id, display_name, currency, balance, last_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (account_id, currency)
		DO UPDATE SET display_name = EXCLUDED.display_name, balance = EXCLUDED.balance, last_updated = NOW()
	`

	_, err := r.querier.Exec(ctx, query, accountID, displayName, currency, amount)
	if err != nil {
		r.logger.Error("Failed to upsert balance", "account_id", accountID.String(), "currency", currency, "error", err)
		return fmt.Errorf("failed to upsert balance: %w", err)
	}

	return nil
}

// Exists reports whether a record was ever created for the pair
func (r *BalanceRepository) Exists(ctx context.Context, accountID uuid.UUID, currency string) (bool, error) {
	query := `
		SELECT 1
		FROM balances
		WHERE account_id = $1 AND currency = $2
	`

	var one int
	err := r.querier.QueryRow(ctx, query, accountID, currency).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error("Failed to check balance existence", "account_id", accountID.String(), "currency", currency, "error", err)
		return false, fmt.Errorf("failed to check balance existence: %w", err)
	}

	return true, nil
}

// TopN returns up to n rows for the currency, descending by amount.
// The id tie-break keeps equal balances in insertion order.
func (r *BalanceRepository) TopN(ctx context.Context, currency string, n int) ([]account.Ranked, error) {
	query := `
		SELECT display_name, balance
		FROM balances
		WHERE currency = $1
		ORDER BY balance DESC, id ASC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, currency, n)
	if err != nil {
		r.logger.Error("Failed to query top balances", "currency", currency, "error", err)
		return nil, fmt.Errorf("failed to query top balances: %w", err)
	}
	defer rows.Close()

	var ranked []account.Ranked
	for rows.Next() {
		var row account.Ranked
		if err := rows.Scan(&row.DisplayName, &row.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan top balance row: %w", err)
		}
		ranked = append(ranked, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top balances: %w", err)
	}

	return ranked, nil
}
