package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// MinAmountExponent and MaxAmountExponent bound the exponent of a
	// normalized amount, ie. once trailing zeros of the coefficient are
	// folded into the exponent.
	MinAmountExponent = -96
	MaxAmountExponent = 80
)

// ParseAmount parses a decimal string and checks its scale bounds.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount returns ErrAmountOutOfRange if the normalized exponent of
// the given amount falls outside [MinAmountExponent, MaxAmountExponent].
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	exp := normalizedExponent(amount)
	if exp < MinAmountExponent || exp > MaxAmountExponent {
		return fmt.Errorf(
			"%w: exponent %d not in [%d, %d]",
			ErrAmountOutOfRange, exp, MinAmountExponent, MaxAmountExponent,
		)
	}
	return nil
}

func normalizedExponent(amount decimal.Decimal) int64 {
	coef := new(big.Int).Abs(amount.Coefficient())
	exp := int64(amount.Exponent())

	ten := big.NewInt(10)
	quo, rem := new(big.Int), new(big.Int)
	for {
		quo.QuoRem(coef, ten, rem)
		if rem.Sign() != 0 {
			return exp
		}
		coef.Set(quo)
		exp++
	}
}
