package vm

import "math/big"

// MemoryLimit bounds how large a register index may be. It exists purely
// as a sanity backstop against runaway programs that would otherwise
// grow the register file without bound (e.g. `incr 99999999999, 1`);
// it has nothing to do with how many registers a well-behaved program
// actually uses.
const MemoryLimit = 100000

// RegisterFile is the machine's register bank: a dense, zero-initialized
// array of arbitrary-precision integers, addressed by non-negative index.
// It grows lazily as higher indices are written, up to its write limit,
// the same way the original interpreter's backing vector did.
type RegisterFile struct {
	cells []*big.Int
	limit int
}

// NewRegisterFile returns an empty register file bounded by the compiled
// MemoryLimit ceiling. Every register reads as zero until written.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{limit: MemoryLimit}
}

// SetLimit tightens the register file's write bound. A configured limit
// can only sandbox below the compiled MemoryLimit ceiling, never raise
// it: a value above MemoryLimit is clamped down to MemoryLimit, and a
// non-positive value falls back to MemoryLimit.
func (r *RegisterFile) SetLimit(limit int) {
	if limit <= 0 || limit > MemoryLimit {
		limit = MemoryLimit
	}
	r.limit = limit
}

// Read returns the value of register n. A negative or out-of-range
// index reads as zero rather than faulting: reads are never a reason to
// stop a program.
func (r *RegisterFile) Read(n *big.Int) *big.Int {
	idx, ok := registerIndex(n)
	if !ok || idx >= len(r.cells) {
		return big.NewInt(0)
	}
	return r.cells[idx]
}

// Write stores v in register n, growing the backing array if needed. It
// fails if n is negative or exceeds the file's limit (MemoryLimit unless
// SetLimit tightened it): unlike Read, a write to
// an invalid index is a machine fault, not a no-op, because silently
// discarding a write would let a program's observable state diverge from
// what it believes it stored.
func (r *RegisterFile) Write(n, v *big.Int) error {
	idx, ok := registerIndex(n)
	if !ok {
		return NewFault(FaultRegisterBounds, "register index %s is out of range", n.String())
	}
	if idx > r.limit {
		return NewFault(FaultRegisterBounds, "register index %d exceeds the memory limit of %d", idx, r.limit)
	}
	if idx >= len(r.cells) {
		grown := make([]*big.Int, idx+1)
		copy(grown, r.cells)
		for i := len(r.cells); i <= idx; i++ {
			grown[i] = big.NewInt(0)
		}
		r.cells = grown
	}
	r.cells[idx] = new(big.Int).Set(v)
	return nil
}
