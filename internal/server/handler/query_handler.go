package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/ledger"
	"github.com/cashpro-ledger/internal/query"
)

const defaultLeaderboardLimit = 10

// QueryHandler serves the read-only projections: leaderboards, paginated
// history and the preformatted placeholder strings.
type QueryHandler struct {
	queries      *query.Service
	mainCurrency string
	logger       *slog.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(logger *slog.Logger, queries *query.Service, mainCurrency string) *QueryHandler {
	return &QueryHandler{
		queries:      queries,
		mainCurrency: mainCurrency,
		logger:       logger,
	}
}

// Leaderboard returns the top accounts by balance for a currency
func (h *QueryHandler) Leaderboard(c *gin.Context) {
	currencyCode := h.currencyOrMain(c)

	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondBadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	ranked, err := h.queries.Top(c.Request.Context(), currencyCode, limit)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, row := range ranked {
		entries = append(entries, LeaderboardEntry{
			Position:    i + 1,
			DisplayName: row.DisplayName,
			Amount:      row.Amount,
		})
	}

	RespondOK(c, entries)
}

// History returns one page of formatted history lines for a display name.
// Pages are 1-indexed; out-of-range pages come back empty.
func (h *QueryHandler) History(c *gin.Context) {
	displayName := c.Param("name")
	currencyCode := h.currencyOrMain(c)
	page := ledger.ParsePage(c.Query("page"))

	lines, totalPages, err := h.queries.History(c.Request.Context(), displayName, currencyCode, page)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	RespondWithPage(c, HistoryResponse{
		DisplayName: displayName,
		Currency:    currencyCode,
		Lines:       lines,
	}, page, h.queries.PageSize(), totalPages)
}

// PlaceholderBalance returns a display name's balance preformatted with the
// currency symbol, e.g. "1,000 ₽". Unknown names render as zero.
func (h *QueryHandler) PlaceholderBalance(c *gin.Context) {
	displayName := c.Param("name")
	currencyCode := h.currencyOrMain(c)

	text, err := h.queries.FormattedBalance(c.Request.Context(), displayName, currencyCode)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	RespondOK(c, PlaceholderResponse{Text: text})
}

// PlaceholderTop returns the leaderboard preformatted as newline-separated
// "name - amount symbol" rows.
func (h *QueryHandler) PlaceholderTop(c *gin.Context) {
	currencyCode := c.Param("currency")

	positions := defaultLeaderboardLimit
	if raw := c.Query("positions"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondBadRequest(c, "Invalid positions")
			return
		}
		positions = parsed
	}

	text, err := h.queries.FormattedTop(c.Request.Context(), currencyCode, positions)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	RespondOK(c, PlaceholderResponse{Text: text})
}

func (h *QueryHandler) currencyOrMain(c *gin.Context) string {
	if code := c.Query("currency"); code != "" {
		return code
	}
	return h.mainCurrency
}

func (h *QueryHandler) respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, currency.ErrUnknownCurrency{}) {
		RespondNotFound(c, err.Error())
		return
	}
	h.logger.Error("Query failed", "error", err)
	RespondInternalError(c)
}
