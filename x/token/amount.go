package token

import (
	"math/big"

	"github.com/iov-one/loom/errors"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount of the smallest unit as a decimal number
// with the given precision, e.g. 1500 with 3 decimals is "1.5".
func FormatAmount(amount uint64, decimals uint8) string {
	v := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return v.String()
}

// ParseAmount converts a decimal number into the smallest unit of a mint
// with the given precision. Values with more fractional digits than the
// precision allows are rejected with ErrPrecision.
func ParseAmount(input string, decimals uint8) (uint64, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid decimal %q", input)
	}
	if amount.IsNegative() {
		return 0, errors.Wrap(errors.ErrAmount, "negative")
	}

	base := amount.Mul(decimal.New(1, int32(decimals)))
	if !base.Equal(base.Truncate(0)) {
		return 0, errors.Wrapf(errors.ErrPrecision, "%s has more than %d decimals", input, decimals)
	}
	n := base.BigInt()
	if !n.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%s", input)
	}
	return n.Uint64(), nil
}
