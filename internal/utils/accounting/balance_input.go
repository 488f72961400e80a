package accounting

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BalancePrecision is the number of fraction digits kept on a balance.
const BalancePrecision = 2

// MaxBalance is the largest amount the numeric(17,2) column can hold.
var MaxBalance = decimal.RequireFromString("999999999999999.99")

// NormalizeBalanceInput turns operator text such as "$12,345.67" into a fixed-point amount.
//
// Every rune other than an ASCII digit or '.' is dropped, so currency symbols, thousands
// separators, whitespace and signs are ignored. The remaining text must contain at least one
// digit and at most one decimal point. The result is rounded half-up to two fraction digits.
// Failures wrap apperrors.ErrInvalidInput.
func NormalizeBalanceInput(raw string) (decimal.Decimal, error) {
	cleaned, err := stripBalanceInput(raw)
	if err != nil {
		return decimal.Zero, err
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, invalidInput(raw, "not a number")
	}

	amount = amount.Round(BalancePrecision)
	if amount.GreaterThan(MaxBalance) {
		return decimal.Zero, invalidInput(raw, "amount is too large")
	}
	return amount, nil
}

// stripBalanceInput keeps digits and the decimal point and pads a bare leading or
// trailing point so "1." and ".5" parse.
func stripBalanceInput(raw string) (string, error) {
	var b strings.Builder
	digits, points := 0, 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '.':
			points++
			b.WriteRune(r)
		}
	}

	if digits == 0 {
		return "", invalidInput(raw, "no digits found")
	}
	if points > 1 {
		return "", invalidInput(raw, "more than one decimal point")
	}

	cleaned := b.String()
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	return strings.TrimSuffix(cleaned, "."), nil
}

func invalidInput(raw, reason string) error {
	return apperrors.NewAppError(http.StatusBadRequest,
		fmt.Sprintf("invalid balance %q: %s", strings.TrimSpace(raw), reason),
		apperrors.ErrInvalidInput)
}
