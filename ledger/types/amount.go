// Package types holds shared value types used across every ledger
// component: 256-bit amounts, basis points, and identifier kinds.
package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is a 256-bit unsigned quantity. All cash and bond-unit
// quantities use it.
type Amount = uint256.Int

// ZeroAmount returns a fresh zero-valued Amount. uint256.Int's zero value
// already reads as zero, but callers that need an explicit non-nil pointer
// (e.g. when initialising a map entry) use this constructor for clarity.
func ZeroAmount() *Amount {
	return new(uint256.Int)
}

// NewAmount constructs an Amount from a uint64, the common case for test
// fixtures and fixed protocol constants.
func NewAmount(v uint64) *Amount {
	return new(uint256.Int).SetUint64(v)
}

// AddAmounts returns a new Amount equal to a+b without mutating either
// operand.
func AddAmounts(a, b *Amount) *Amount {
	out := new(uint256.Int)
	out.Add(a, b)
	return out
}

// SubAmounts returns a new Amount equal to a-b without mutating either
// operand. Callers must have already checked a >= b.
func SubAmounts(a, b *Amount) *Amount {
	out := new(uint256.Int)
	out.Sub(a, b)
	return out
}

// BasisPoints is an integer where 10000 represents 100%.
type BasisPoints uint64

// MaxBasisPoints is the upper bound of a BasisPoints value (100%).
const MaxBasisPoints BasisPoints = 10000

// Validate reports whether bps is within [0, 10000].
func (b BasisPoints) Validate() error {
	if b > MaxBasisPoints {
		return fmt.Errorf("ledger: basis points %d exceeds 10000", uint64(b))
	}
	return nil
}

// ApplyBps returns floor(amount * bps / 10000).
func ApplyBps(amount *Amount, bps BasisPoints) *Amount {
	num := new(uint256.Int).Mul(amount, new(uint256.Int).SetUint64(uint64(bps)))
	den := new(uint256.Int).SetUint64(uint64(MaxBasisPoints))
	out := new(uint256.Int)
	out.Div(num, den)
	return out
}

// ID is a dense, monotonically increasing, non-zero identifier. Zero
// means "absent".
type ID uint64

// IsSet reports whether the identifier has been assigned.
func (id ID) IsSet() bool { return id != 0 }
