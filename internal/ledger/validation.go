package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Default operation bounds. Overridable through configuration.
const (
	DefaultMinAmount int64 = 1
	DefaultMaxAmount int64 = 10_000_000
)

// ParseAmount parses a positive amount string for credit, debit and transfer
// requests. Signed input, leading zeros and values outside [min, max] are
// rejected at this boundary; the engine re-validates the parsed integer
// regardless of how the caller obtained it.
func ParseAmount(input string, min, max int64) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is empty: %w", ErrInvalidAmount)
	}
	if trimmed[0] == '-' || trimmed[0] == '+' {
		return 0, fmt.Errorf("amount %q is signed: %w", trimmed, ErrInvalidAmount)
	}
	if len(trimmed) > 1 && trimmed[0] == '0' {
		return 0, fmt.Errorf("amount %q has leading zeros: %w", trimmed, ErrInvalidAmount)
	}

	amount, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number: %w", trimmed, ErrInvalidAmount)
	}
	if amount < min || amount > max {
		return 0, fmt.Errorf("amount %d outside [%d, %d]: %w", amount, min, max, ErrInvalidAmount)
	}

	return amount, nil
}

// ParseBalance parses a balance target for set requests. Zero is a valid
// target, so only the positive upper bound and the parsing policy apply.
func ParseBalance(input string, max int64) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "0" {
		return 0, nil
	}
	return ParseAmount(trimmed, 1, max)
}

// ParsePage parses a 1-indexed page number, defaulting to the first page on
// empty or invalid input.
func ParsePage(input string) int {
	page, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
