package handler

// Amounts travel as strings so the boundary can enforce the parsing policy
// (no signs, no leading zeros) before anything reaches the engine.

// ProvisionAccountRequest registers an account on its first appearance
type ProvisionAccountRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid"`
	DisplayName string `json:"display_name" binding:"required"`
}

// AdjustmentRequest covers the admin set/credit/debit operations
type AdjustmentRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid"`
	DisplayName string `json:"display_name" binding:"required"`
	Currency    string `json:"currency,omitempty"`
	Amount      string `json:"amount" binding:"required"`
}

// TransferRequest moves an amount between two accounts
type TransferRequest struct {
	FromID   string `json:"from_id" binding:"required,uuid"`
	FromName string `json:"from_name" binding:"required"`
	ToID     string `json:"to_id" binding:"required,uuid"`
	ToName   string `json:"to_name" binding:"required"`
	Currency string `json:"currency,omitempty"`
	Amount   string `json:"amount" binding:"required"`
}

// BalanceResponse reports one account's balance in one currency
type BalanceResponse struct {
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Currency    string `json:"currency"`
	Balance     int64  `json:"balance"`
}

// LeaderboardEntry is one ranked leaderboard row
type LeaderboardEntry struct {
	Position    int    `json:"position"`
	DisplayName string `json:"display_name"`
	Amount      int64  `json:"amount"`
}

// HistoryResponse carries one page of formatted history lines
type HistoryResponse struct {
	DisplayName string   `json:"display_name"`
	Currency    string   `json:"currency"`
	Lines       []string `json:"lines"`
}

// OperationResponse acknowledges a successful mutation
type OperationResponse struct {
	Status string `json:"status"`
}

// PlaceholderResponse wraps a preformatted display string
type PlaceholderResponse struct {
	Text string `json:"text"`
}
