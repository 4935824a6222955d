// Package ledger implements the engine that owns every balance mutation.
// It enforces amount bounds, non-negative balances and the atomicity of
// transfers, and appends one audit record per successful mutation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cashpro-ledger/internal/config"
	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/domain/account"
	"github.com/cashpro-ledger/internal/domain/transaction"
	"github.com/cashpro-ledger/internal/platform/messaging/producers"
	"github.com/cashpro-ledger/internal/platform/persistence"
)

// Engine is the only writer of balances. Business-rule rejections
// (ErrInvalidAmount, ErrInsufficientFunds, ErrSameAccount,
// currency.ErrUnknownCurrency) come back as typed errors; anything else is a
// storage fault.
type Engine interface {
	// SetBalance overwrites the balance. Zero is a valid target.
	SetBalance(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error

	// Credit adds a positive amount to the current balance.
	Credit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error

	// Debit subtracts a positive amount, failing with ErrInsufficientFunds
	// before any mutation when the balance does not cover it.
	Debit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error

	// Transfer moves amount between two accounts as one unit of work.
	Transfer(ctx context.Context, fromID uuid.UUID, fromName string, toID uuid.UUID, toName, currencyCode string, amount int64) error

	// EnsureStartingBalance provisions every configured currency the account
	// does not yet hold at its starting value. Idempotent.
	EnsureStartingBalance(ctx context.Context, accountID uuid.UUID, displayName string) error
}

// TxRunner runs a function inside one database transaction
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

var _ TxRunner = (*persistence.PostgresDB)(nil)

// LedgerEngine implements Engine on top of the balance store and the
// transaction log, with per-key locking for lost-update safety.
type LedgerEngine struct {
	db        TxRunner
	balances  account.Store
	log       transaction.Log
	registry  *currency.Registry
	publisher producers.MessagePublisher // nil when event publishing is disabled
	locks     *keyedLocks
	logger    *slog.Logger

	minAmount       int64
	maxAmount       int64
	logTransactions bool
}

// NewEngine creates a ledger engine with the configured bounds
func NewEngine(
	logger *slog.Logger,
	db TxRunner,
	balances account.Store,
	log transaction.Log,
	registry *currency.Registry,
	publisher producers.MessagePublisher,
	cfg *config.LedgerConfig,
) *LedgerEngine {
	return &LedgerEngine{
		db:              db,
		balances:        balances,
		log:             log,
		registry:        registry,
		publisher:       publisher,
		locks:           newKeyedLocks(),
		logger:          logger,
		minAmount:       cfg.MinAmount,
		maxAmount:       cfg.MaxAmount,
		logTransactions: cfg.TransactionLog,
	}
}

// snapshot preserves a balance for compensation if the audit append fails
type snapshot struct {
	accountID   uuid.UUID
	displayName string
	currency    string
	amount      int64
}

func (e *LedgerEngine) validateAmount(amount int64) error {
	if amount < e.minAmount || amount > e.maxAmount {
		return fmt.Errorf("amount %d outside [%d, %d]: %w", amount, e.minAmount, e.maxAmount, ErrInvalidAmount)
	}
	return nil
}

func (e *LedgerEngine) validateCurrency(code string) error {
	if !e.registry.Known(code) {
		return currency.ErrUnknownCurrency{Code: code}
	}
	return nil
}

// SetBalance unconditionally overwrites the balance and logs an admin_set
// transaction. Amounts below zero or above the configured maximum are rejected.
func (e *LedgerEngine) SetBalance(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	if amount < 0 || amount > e.maxAmount {
		return fmt.Errorf("balance target %d outside [0, %d]: %w", amount, e.maxAmount, ErrInvalidAmount)
	}
	if err := e.validateCurrency(currencyCode); err != nil {
		return err
	}

	unlock := e.locks.lock(balanceKey(accountID, currencyCode))
	defer unlock()

	previous, err := e.balances.Get(ctx, accountID, currencyCode)
	if err != nil {
		return err
	}

	if err := e.balances.Upsert(ctx, accountID, displayName, currencyCode, amount); err != nil {
		return err
	}

	tx := transaction.New("", displayName, currencyCode, amount, transaction.KindAdminSet)
	return e.record(ctx, tx, snapshot{accountID, displayName, currencyCode, previous})
}

// Credit adds amount to the current balance and logs an admin_credit
// transaction. Credit cannot fail on insufficient funds.
func (e *LedgerEngine) Credit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	if err := e.validateAmount(amount); err != nil {
		return err
	}
	if err := e.validateCurrency(currencyCode); err != nil {
		return err
	}

	unlock := e.locks.lock(balanceKey(accountID, currencyCode))
	defer unlock()

	current, err := e.balances.Get(ctx, accountID, currencyCode)
	if err != nil {
		return err
	}
	if current > math.MaxInt64-amount {
		return fmt.Errorf("credit of %d would overflow balance %d: %w", amount, current, ErrInvalidAmount)
	}

	if err := e.balances.Upsert(ctx, accountID, displayName, currencyCode, current+amount); err != nil {
		return err
	}

	tx := transaction.New("", displayName, currencyCode, amount, transaction.KindAdminCredit)
	return e.record(ctx, tx, snapshot{accountID, displayName, currencyCode, current})
}

// Debit subtracts amount from the current balance and logs an admin_debit
// transaction. The balance is read and re-written under the key lock, so a
// racing debit can never drive it negative.
func (e *LedgerEngine) Debit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	if err := e.validateAmount(amount); err != nil {
		return err
	}
	if err := e.validateCurrency(currencyCode); err != nil {
		return err
	}

	unlock := e.locks.lock(balanceKey(accountID, currencyCode))
	defer unlock()

	current, err := e.balances.Get(ctx, accountID, currencyCode)
	if err != nil {
		return err
	}
	if current < amount {
		return ErrInsufficientFunds{Available: current, Requested: amount}
	}

	if err := e.balances.Upsert(ctx, accountID, displayName, currencyCode, current-amount); err != nil {
		return err
	}

	tx := transaction.New("", displayName, currencyCode, amount, transaction.KindAdminDebit)
	return e.record(ctx, tx, snapshot{accountID, displayName, currencyCode, current})
}

// Transfer debits the source and credits the destination in one database
// transaction, then logs a single transfer record. A failure at any step
// leaves both balances at their pre-transfer values.
func (e *LedgerEngine) Transfer(ctx context.Context, fromID uuid.UUID, fromName string, toID uuid.UUID, toName, currencyCode string, amount int64) error {
	if fromID == toID {
		return ErrSameAccount
	}
	if err := e.validateAmount(amount); err != nil {
		return err
	}
	if err := e.validateCurrency(currencyCode); err != nil {
		return err
	}

	unlock := e.locks.lock(balanceKey(fromID, currencyCode), balanceKey(toID, currencyCode))
	defer unlock()

	fromBalance, err := e.balances.Get(ctx, fromID, currencyCode)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientFunds{Available: fromBalance, Requested: amount}
	}

	toBalance, err := e.balances.Get(ctx, toID, currencyCode)
	if err != nil {
		return err
	}
	if toBalance > math.MaxInt64-amount {
		return fmt.Errorf("transfer of %d would overflow destination balance %d: %w", amount, toBalance, ErrInvalidAmount)
	}

	err = e.db.ExecuteTx(ctx, func(dbTx pgx.Tx) error {
		store := e.balances.WithTx(dbTx)
		if err := store.Upsert(ctx, fromID, fromName, currencyCode, fromBalance-amount); err != nil {
			return err
		}
		return store.Upsert(ctx, toID, toName, currencyCode, toBalance+amount)
	})
	if err != nil {
		return err
	}

	tx := transaction.New(fromName, toName, currencyCode, amount, transaction.KindTransfer)
	return e.record(ctx, tx,
		snapshot{fromID, fromName, currencyCode, fromBalance},
		snapshot{toID, toName, currencyCode, toBalance},
	)
}

// EnsureStartingBalance creates a record at the configured starting value for
// every currency the account does not hold yet. Provisioning writes no audit
// entries; only explicit mutations are logged.
func (e *LedgerEngine) EnsureStartingBalance(ctx context.Context, accountID uuid.UUID, displayName string) error {
	for _, code := range e.registry.List() {
		def, err := e.registry.Get(code)
		if err != nil {
			return err
		}

		if err := e.provision(ctx, accountID, displayName, def); err != nil {
			return err
		}
	}
	return nil
}

func (e *LedgerEngine) provision(ctx context.Context, accountID uuid.UUID, displayName string, def currency.Definition) error {
	unlock := e.locks.lock(balanceKey(accountID, def.Code))
	defer unlock()

	exists, err := e.balances.Exists(ctx, accountID, def.Code)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := e.balances.Upsert(ctx, accountID, displayName, def.Code, def.StartingBalance); err != nil {
		return err
	}

	e.logger.Info("Provisioned starting balance",
		"account_id", accountID.String(),
		"currency", def.Code,
		"amount", def.StartingBalance,
	)
	return nil
}

// record appends the audit entry for an already-applied mutation and then
// publishes the event. If the append fails, every snapshot is restored so no
// mutation survives without its audit record.
func (e *LedgerEngine) record(ctx context.Context, tx *transaction.Transaction, previous ...snapshot) error {
	if !e.logTransactions {
		return nil
	}

	if err := e.log.Append(ctx, tx); err != nil {
		e.logger.Error("Transaction log append failed, restoring balances",
			"transaction_id", tx.ID.String(),
			"kind", string(tx.Kind),
			"error", err,
		)
		if rbErr := e.restore(ctx, previous); rbErr != nil {
			e.logger.Error("Failed to restore balances after log failure",
				"transaction_id", tx.ID.String(),
				"error", rbErr,
			)
			return fmt.Errorf("append failed (%w) and rollback failed: %v", err, rbErr)
		}
		return fmt.Errorf("transaction log append failed: %w", err)
	}

	e.publish(ctx, tx)
	return nil
}

// restore writes the snapshots back in one database transaction. The key
// locks are still held by the caller, so nothing interleaves.
func (e *LedgerEngine) restore(ctx context.Context, previous []snapshot) error {
	return e.db.ExecuteTx(ctx, func(dbTx pgx.Tx) error {
		store := e.balances.WithTx(dbTx)
		for _, snap := range previous {
			if err := store.Upsert(ctx, snap.accountID, snap.displayName, snap.currency, snap.amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// publish emits the committed transaction to the event stream. Publishing is
// best-effort and never fails the operation.
func (e *LedgerEngine) publish(ctx context.Context, tx *transaction.Transaction) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, tx.ID.String(), tx); err != nil {
		e.logger.Warn("Failed to publish transaction event",
			"transaction_id", tx.ID.String(),
			"error", err,
		)
	}
}
