package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cashpro-ledger/internal/currency"
	"github.com/cashpro-ledger/internal/domain/account"
	"github.com/cashpro-ledger/internal/ledger"
	"github.com/cashpro-ledger/internal/query"
)

// BalanceHandler serves balance lookups and the account provisioning hook
type BalanceHandler struct {
	engine       ledger.Engine
	queries      *query.Service
	mainCurrency string
	logger       *slog.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(logger *slog.Logger, engine ledger.Engine, queries *query.Service, mainCurrency string) *BalanceHandler {
	return &BalanceHandler{
		engine:       engine,
		queries:      queries,
		mainCurrency: mainCurrency,
		logger:       logger,
	}
}

// GetByID returns the balance for an account identity. Accounts without a
// record read as zero.
func (h *BalanceHandler) GetByID(c *gin.Context) {
	idParam := c.Param("account_id")
	accountID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	currencyCode := h.currencyOrMain(c)

	balance, err := h.queries.Balance(c.Request.Context(), accountID, currencyCode)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	RespondOK(c, BalanceResponse{
		AccountID: accountID.String(),
		Currency:  currencyCode,
		Balance:   balance,
	})
}

// GetByName returns the balance for a last-seen display name, 404 when the
// name never appeared. This is distinct from a zero balance.
func (h *BalanceHandler) GetByName(c *gin.Context) {
	displayName := c.Param("name")
	currencyCode := h.currencyOrMain(c)

	balance, err := h.queries.BalanceByName(c.Request.Context(), displayName, currencyCode)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.respondQueryError(c, err)
		return
	}

	RespondOK(c, BalanceResponse{
		DisplayName: displayName,
		Currency:    currencyCode,
		Balance:     balance,
	})
}

// Provision invokes starting-balance provisioning for an account's first
// appearance. Re-registering an account is a harmless no-op.
func (h *BalanceHandler) Provision(c *gin.Context) {
	var req ProvisionAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.engine.EnsureStartingBalance(c.Request.Context(), accountID, req.DisplayName); err != nil {
		h.logger.Error("Failed to provision account", "account_id", req.AccountID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, OperationResponse{Status: "provisioned"})
}

func (h *BalanceHandler) currencyOrMain(c *gin.Context) string {
	if code := c.Query("currency"); code != "" {
		return code
	}
	return h.mainCurrency
}

func (h *BalanceHandler) respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, currency.ErrUnknownCurrency{}) {
		RespondNotFound(c, err.Error())
		return
	}
	h.logger.Error("Balance query failed", "error", err)
	RespondInternalError(c)
}
