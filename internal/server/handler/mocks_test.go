package handler

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/domain/account"
	"github.com/cashpro-ledger/internal/domain/transaction"
	"github.com/cashpro-ledger/internal/query"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) SetBalance(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	args := m.Called(ctx, accountID, displayName, currencyCode, amount)
	return args.Error(0)
}

func (m *MockEngine) Credit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	args := m.Called(ctx, accountID, displayName, currencyCode, amount)
	return args.Error(0)
}

func (m *MockEngine) Debit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	args := m.Called(ctx, accountID, displayName, currencyCode, amount)
	return args.Error(0)
}

func (m *MockEngine) Transfer(ctx context.Context, fromID uuid.UUID, fromName string, toID uuid.UUID, toName, currencyCode string, amount int64) error {
	args := m.Called(ctx, fromID, fromName, toID, toName, currencyCode, amount)
	return args.Error(0)
}

func (m *MockEngine) EnsureStartingBalance(ctx context.Context, accountID uuid.UUID, displayName string) error {
	args := m.Called(ctx, accountID, displayName)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, accountID uuid.UUID, currency string) (int64, error) {
	args := m.Called(ctx, accountID, currency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetByDisplayName(ctx context.Context, displayName, currency string) (int64, error) {
	args := m.Called(ctx, displayName, currency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Upsert(ctx context.Context, accountID uuid.UUID, displayName, currency string, amount int64) error {
	args := m.Called(ctx, accountID, displayName, currency, amount)
	return args.Error(0)
}

func (m *MockStore) Exists(ctx context.Context, accountID uuid.UUID, currency string) (bool, error) {
	args := m.Called(ctx, accountID, currency)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) TopN(ctx context.Context, currency string, n int) ([]account.Ranked, error) {
	args := m.Called(ctx, currency, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Ranked), args.Error(1)
}

func (m *MockStore) WithTx(tx pgx.Tx) account.Store {
	return m
}

type MockLog struct {
	mock.Mock
}

func (m *MockLog) Append(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLog) CountForAccount(ctx context.Context, displayName, currency string) (int64, error) {
	args := m.Called(ctx, displayName, currency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLog) PageForAccount(ctx context.Context, displayName, currency string, page, pageSize int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, displayName, currency, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

func testQueryService(t *testing.T, store *MockStore, log *MockLog) *query.Service {
	t.Helper()
	registry, err := currency.NewRegistry([]currency.Definition{
		{Code: "rub", Symbol: "₽", StartingBalance: 1000},
	})
	require.NoError(t, err)
	return query.NewService(testLogger(), store, log, registry, nil, 10)
}
