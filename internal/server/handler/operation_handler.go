package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cashpro-ledger/internal/config"
	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/ledger"
)

// OperationHandler serves the mutation entry points: set, credit, debit and
// transfer. Business-rule rejections map to 4xx codes with actionable
// messages; storage faults map to a generic 500.
type OperationHandler struct {
	engine       ledger.Engine
	minAmount    int64
	maxAmount    int64
	mainCurrency string
	logger       *slog.Logger
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(logger *slog.Logger, engine ledger.Engine, cfg *config.LedgerConfig) *OperationHandler {
	return &OperationHandler{
		engine:       engine,
		minAmount:    cfg.MinAmount,
		maxAmount:    cfg.MaxAmount,
		mainCurrency: cfg.MainCurrency,
		logger:       logger,
	}
}

// Set overwrites an account's balance
func (h *OperationHandler) Set(c *gin.Context) {
	req, accountID, ok := h.bindAdjustment(c)
	if !ok {
		return
	}

	amount, err := ledger.ParseBalance(req.Amount, h.maxAmount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	err = h.engine.SetBalance(c.Request.Context(), accountID, req.DisplayName, h.currencyOrMain(req.Currency), amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, OperationResponse{Status: "set"})
}

// Credit adds to an account's balance
func (h *OperationHandler) Credit(c *gin.Context) {
	req, accountID, ok := h.bindAdjustment(c)
	if !ok {
		return
	}

	amount, err := ledger.ParseAmount(req.Amount, h.minAmount, h.maxAmount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	err = h.engine.Credit(c.Request.Context(), accountID, req.DisplayName, h.currencyOrMain(req.Currency), amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, OperationResponse{Status: "credited"})
}

// Debit subtracts from an account's balance
func (h *OperationHandler) Debit(c *gin.Context) {
	req, accountID, ok := h.bindAdjustment(c)
	if !ok {
		return
	}

	amount, err := ledger.ParseAmount(req.Amount, h.minAmount, h.maxAmount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	err = h.engine.Debit(c.Request.Context(), accountID, req.DisplayName, h.currencyOrMain(req.Currency), amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, OperationResponse{Status: "debited"})
}

// Transfer moves an amount between two accounts
func (h *OperationHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	fromID, err := uuid.Parse(req.FromID)
	if err != nil {
		RespondBadRequest(c, "Invalid source account ID")
		return
	}
	toID, err := uuid.Parse(req.ToID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	amount, err := ledger.ParseAmount(req.Amount, h.minAmount, h.maxAmount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	err = h.engine.Transfer(c.Request.Context(), fromID, req.FromName, toID, req.ToName, h.currencyOrMain(req.Currency), amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, OperationResponse{Status: "transferred"})
}

func (h *OperationHandler) bindAdjustment(c *gin.Context) (AdjustmentRequest, uuid.UUID, bool) {
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return req, uuid.Nil, false
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return req, uuid.Nil, false
	}

	return req, accountID, true
}

func (h *OperationHandler) currencyOrMain(code string) string {
	if code != "" {
		return code
	}
	return h.mainCurrency
}

// respondOperationError translates engine errors into HTTP responses
func (h *OperationHandler) respondOperationError(c *gin.Context, err error) {
	var insufficient ledger.ErrInsufficientFunds
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		RespondBadRequest(c, err.Error())
	case errors.As(err, &insufficient):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", insufficient.Error())
	case errors.Is(err, ledger.ErrSameAccount):
		RespondUnprocessable(c, "SAME_ACCOUNT", err.Error())
	case errors.Is(err, currency.ErrUnknownCurrency{}):
		RespondNotFound(c, err.Error())
	default:
		h.logger.Error("Ledger operation failed", "error", err)
		RespondInternalError(c)
	}
}
