package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashpro-ledger/internal/domain/account"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestBalanceRepository_Get(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BalanceRepository{querier: mock, logger: logger}
	accountID := uuid.New()

	query := `
		SELECT balance
		FROM balances
		WHERE account_id = \$1 AND currency = \$2
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"balance"}).AddRow(int64(1500))
		mock.ExpectQuery(query).WithArgs(accountID, "rub").WillReturnRows(rows)

		balance, err := repo.Get(ctx, accountID, "rub")
		assert.NoError(t, err)
		assert.Equal(t, int64(1500), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no record reads as zero", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accountID, "rub").WillReturnError(pgx.ErrNoRows)

		balance, err := repo.Get(ctx, accountID, "rub")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(accountID, "rub").WillReturnError(expectedErr)

		_, err := repo.Get(ctx, accountID, "rub")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get balance")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_GetByDisplayName(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BalanceRepository{querier: mock, logger: logger}

	query := `
		SELECT balance
		FROM balances
		WHERE display_name = \$1 AND currency = \$2
		ORDER BY last_updated DESC
		LIMIT 1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"balance"}).AddRow(int64(250))
		mock.ExpectQuery(query).WithArgs("Steve", "rub").WillReturnRows(rows)

		balance, err := repo.GetByDisplayName(ctx, "Steve", "rub")
		assert.NoError(t, err)
		assert.Equal(t, int64(250), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown name", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("Nobody", "rub").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByDisplayName(ctx, "Nobody", "rub")
		assert.Error(t, err)
		var notFound account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Nobody", notFound.DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BalanceRepository{querier: mock, logger: logger}
	accountID := uuid.New()

	query := `
		INSERT INTO balances \(account_id, display_name, currency, balance, last_updated\)
		VALUES \(\$1, \$2, \$3, \$4, NOW\(\)\)
		ON CONFLICT \(account_id, currency\)
		DO UPDATE SET display_name = EXCLUDED.display_name, balance = EXCLUDED.balance, last_updated = NOW\(\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(accountID, "Steve", "rub", int64(1000)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(ctx, accountID, "Steve", "rub", 1000)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative amount rejected before the database", func(t *testing.T) {
		err := repo.Upsert(ctx, accountID, "Steve", "rub", -5)
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(accountID, "Steve", "rub", int64(1000)).
			WillReturnError(expectedErr)

		err := repo.Upsert(ctx, accountID, "Steve", "rub", 1000)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert balance")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_Exists(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BalanceRepository{querier: mock, logger: logger}
	accountID := uuid.New()

	query := `
		SELECT 1
		FROM balances
		WHERE account_id = \$1 AND currency = \$2
	`

	t.Run("present", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"?column?"}).AddRow(1)
		mock.ExpectQuery(query).WithArgs(accountID, "rub").WillReturnRows(rows)

		exists, err := repo.Exists(ctx, accountID, "rub")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accountID, "rub").WillReturnError(pgx.ErrNoRows)

		exists, err := repo.Exists(ctx, accountID, "rub")
		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_TopN(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BalanceRepository{querier: mock, logger: logger}

	query := `
		SELECT display_name, balance
		FROM balances
		WHERE currency = \$1
		ORDER BY balance DESC, id ASC
		LIMIT \$2
	`

	t.Run("ordered rows", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"display_name", "balance"}).
			AddRow("Alex", int64(5000)).
			AddRow("Steve", int64(3000)).
			AddRow("Kira", int64(3000))
		mock.ExpectQuery(query).WithArgs("rub", 3).WillReturnRows(rows)

		ranked, err := repo.TopN(ctx, "rub", 3)
		assert.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, account.Ranked{DisplayName: "Alex", Amount: 5000}, ranked[0])
		assert.Equal(t, "Steve", ranked[1].DisplayName)
		assert.Equal(t, "Kira", ranked[2].DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty currency", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"display_name", "balance"})
		mock.ExpectQuery(query).WithArgs("mishka", 10).WillReturnRows(rows)

		ranked, err := repo.TopN(ctx, "mishka", 10)
		assert.NoError(t, err)
		assert.Empty(t, ranked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs("rub", 3).WillReturnError(expectedErr)

		_, err := repo.TopN(ctx, "rub", 3)
		assert.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
