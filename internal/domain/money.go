package domain

import (
	"github.com/shopspring/decimal"
)

// CentsFromDecimal converts a wire amount into centavos. Amounts with more
// than two fractional digits cannot be represented and are rejected rather
// than rounded, as are amounts past the int64 range.
func CentsFromDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(decimal.NewFromInt(100))
	if !scaled.IsInteger() {
		return 0, ErrInvalidAmount
	}
	cents := scaled.BigInt()
	if !cents.IsInt64() {
		return 0, ErrInvalidAmount
	}
	return cents.Int64(), nil
}

// DecimalFromCents renders centavos as a two-place decimal for responses.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
