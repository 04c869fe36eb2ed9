// Package rate converts a requested storage quantity into the amount that has
// to be paid for it.
//
// Amounts are unsigned 256-bit integers. A product that does not fit is
// rejected with ErrOverflow instead of wrapping or saturating.
package rate

import (
	"errors"

	"github.com/holiman/uint256"
)

var ErrOverflow = errors.New("amount overflow")

// Required returns instrumentRate * quantity.
func Required(instrumentRate, quantity *uint256.Int) (*uint256.Int, error) {
	return mul(instrumentRate, quantity)
}

// RequiredNative returns nativeRate * quantity.
func RequiredNative(nativeRate, quantity *uint256.Int) (*uint256.Int, error) {
	return mul(nativeRate, quantity)
}

// Add returns a + b, rejecting overflow the same way as the conversions do.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return sum, nil
}

func mul(a, b *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return product, nil
}
