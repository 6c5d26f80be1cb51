package vm

import (
	"math"
	"math/big"
)

// registerIndex converts a register-number operand to a machine int,
// the way the original Rust interpreter's num_traits::ToPrimitive
// ToPrimitive::to_usize did: negative numbers, and numbers too large to
// fit in the platform's native integer width, both fail the conversion
// rather than wrapping or truncating.
func registerIndex(n *big.Int) (int, bool) {
	if n.Sign() < 0 {
		return 0, false
	}
	if !n.IsUint64() {
		return 0, false
	}
	u := n.Uint64()
	if u > math.MaxInt {
		return 0, false
	}
	return int(u), true
}
