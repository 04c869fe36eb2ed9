package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ParseAmount parses an unsigned decimal amount.
func ParseAmount(in string) (*uint256.Int, error) {
	value, err := uint256.FromDecimal(in)
	if err != nil {
		return nil, fmt.Errorf("couldn't convert '%s' to unsigned integer: %w", in, err)
	}
	return value, nil
}

// FormatAmount returns the decimal representation of an amount, "0" for nil.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.ToBig().String()
}
