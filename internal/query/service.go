// Package query provides the read-only projections over the balance store
// and the transaction log: leaderboards, paginated history and the formatted
// strings third-party displays embed.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/domain/account"
	"github.com/cashpro-ledger/internal/domain/transaction"
)

// Service answers read queries. It never mutates anything.
type Service struct {
	balances account.Store
	log      transaction.Log
	registry *currency.Registry
	cache    *LeaderboardCache // nil when the cache is disabled
	pageSize int
	logger   *slog.Logger
}

// NewService creates a query service with the default history page size
func NewService(
	logger *slog.Logger,
	balances account.Store,
	log transaction.Log,
	registry *currency.Registry,
	cache *LeaderboardCache,
	pageSize int,
) *Service {
	return &Service{
		balances: balances,
		log:      log,
		registry: registry,
		cache:    cache,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Balance returns the balance for an account identity, 0 when the pair has
// no record yet.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID, currencyCode string) (int64, error) {
	if err := s.requireCurrency(currencyCode); err != nil {
		return 0, err
	}
	return s.balances.Get(ctx, accountID, currencyCode)
}

// BalanceByName returns the balance for a last-seen display name.
// Returns account.ErrAccountNotFound when the name is unknown.
func (s *Service) BalanceByName(ctx context.Context, displayName, currencyCode string) (int64, error) {
	if err := s.requireCurrency(currencyCode); err != nil {
		return 0, err
	}
	return s.balances.GetByDisplayName(ctx, displayName, currencyCode)
}

// Top returns the leaderboard for a currency, at most limit rows.
func (s *Service) Top(ctx context.Context, currencyCode string, limit int) ([]account.Ranked, error) {
	if err := s.requireCurrency(currencyCode); err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, errors.New("leaderboard limit must be 1 or greater")
	}

	if s.cache != nil {
		if ranked, hit := s.cache.Get(ctx, currencyCode, limit); hit {
			return ranked, nil
		}
	}

	ranked, err := s.balances.TopN(ctx, currencyCode, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, currencyCode, limit, ranked)
	}

	return ranked, nil
}

// History returns one page of formatted history lines for the display name
// plus the total page count. Pages are 1-indexed; pages past the end come
// back empty.
func (s *Service) History(ctx context.Context, displayName, currencyCode string, page int) ([]string, int, error) {
	if err := s.requireCurrency(currencyCode); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}

	total, err := s.log.CountForAccount(ctx, displayName, currencyCode)
	if err != nil {
		return nil, 0, err
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if total == 0 {
		return nil, 0, nil
	}

	entries, err := s.log.PageForAccount(ctx, displayName, currencyCode, page, s.pageSize)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.FormattedLine())
	}

	return lines, totalPages, nil
}

// FormattedBalance renders an account's balance with the currency symbol,
// e.g. "1,000 ₽". Unknown names render as a zero balance, matching how
// external displays treat accounts that never appeared.
func (s *Service) FormattedBalance(ctx context.Context, displayName, currencyCode string) (string, error) {
	def, err := s.registry.Get(currencyCode)
	if err != nil {
		return "", err
	}

	balance, err := s.balances.GetByDisplayName(ctx, displayName, currencyCode)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return def.FormatAmount(0), nil
		}
		return "", err
	}

	return def.FormatAmount(balance), nil
}

// FormattedTop renders the leaderboard as newline-separated
// "name - amount symbol" rows for third-party display.
func (s *Service) FormattedTop(ctx context.Context, currencyCode string, limit int) (string, error) {
	def, err := s.registry.Get(currencyCode)
	if err != nil {
		return "", err
	}

	ranked, err := s.Top(ctx, currencyCode, limit)
	if err != nil {
		return "", err
	}
	if len(ranked) == 0 {
		return "", nil
	}

	rows := make([]string, 0, len(ranked))
	for _, row := range ranked {
		rows = append(rows, row.DisplayName+" - "+def.FormatAmount(row.Amount))
	}

	return strings.Join(rows, "\n"), nil
}

// PageSize returns the history page size in use
func (s *Service) PageSize() int {
	return s.pageSize
}

func (s *Service) requireCurrency(code string) error {
	if !s.registry.Known(code) {
		return currency.ErrUnknownCurrency{Code: code}
	}
	return nil
}
