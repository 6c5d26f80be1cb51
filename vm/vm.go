// Package vm implements the register machine aaron-asm programs run on:
// an unbounded bank of arbitrary-precision integer registers, a single
// program counter, and six instructions (incr, decr, save, putc, putn,
// halt).
package vm

import (
	"fmt"
	"io"
	"math/big"
	"unicode/utf8"

	"github.com/SaitoAtsushi/aaron-asm/parser"
)

// ExecutionState describes what a VM is doing right now.
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateFaulted
)

func (s ExecutionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// VM is one instance of the register machine. Output is written through
// an io.Writer rather than directly to os.Stdout so that tests (and
// embedders) can capture it.
type VM struct {
	Registers *RegisterFile
	PC        *big.Int
	Output    io.Writer
	State     ExecutionState

	// MaxSteps caps how many statements Run will execute before
	// giving up, guarding against runaway or infinite-loop programs.
	// Zero means unlimited.
	MaxSteps uint64
	steps    uint64
}

// NewVM creates a fresh machine, at pc 0, all registers zero, ready to
// run.
func NewVM(output io.Writer) *VM {
	return &VM{
		Registers: NewRegisterFile(),
		PC:        big.NewInt(0),
		Output:    output,
		State:     StateRunning,
	}
}

// Run executes program from the VM's current pc until it halts or
// faults, and returns the value left in register 0 — by convention,
// aaron-asm programs leave their result there.
func (m *VM) Run(program *parser.Program) (*big.Int, error) {
	m.State = StateRunning
	for m.State == StateRunning {
		if err := m.Step(program); err != nil {
			m.State = StateFaulted
			return nil, err
		}
	}
	return m.Registers.Read(big.NewInt(0)), nil
}

// Step executes a single statement and advances pc (or halts, or
// faults). It is exported so a caller wanting single-step execution
// (e.g. a future debugger) doesn't need to reimplement fetch/decode.
func (m *VM) Step(program *parser.Program) error {
	idx, ok := registerIndex(m.PC)
	if !ok {
		return NewFault(FaultBadPC, "program counter %s is invalid", m.PC.String())
	}
	if idx == len(program.Statements) {
		m.State = StateHalted
		return nil
	}
	if idx > len(program.Statements) {
		return NewFault(FaultBadPC, "program counter %d is past the end of the program", idx)
	}

	if m.MaxSteps > 0 {
		m.steps++
		if m.steps > m.MaxSteps {
			return NewFault(FaultBadPC, "exceeded the step limit of %d", m.MaxSteps)
		}
	}

	return m.execute(program.Statements[idx], idx)
}

func (m *VM) execute(stmt parser.Statement, pc int) error {
	switch s := stmt.(type) {
	case *parser.IncrStmt:
		return m.execIncr(s, pc)
	case *parser.DecrStmt:
		return m.execDecr(s, pc)
	case *parser.SaveStmt:
		return m.execSave(s, pc)
	case *parser.PutcStmt:
		return m.execPutc(s, pc)
	case *parser.PutnStmt:
		return m.execPutn(s, pc)
	case *parser.HaltStmt:
		m.State = StateHalted
		return nil
	default:
		return fmt.Errorf("vm: unhandled statement type %T", stmt)
	}
}

// execIncr advances pc first, then adds Value to the register named by
// Index — unless Index evaluates negative, in which case the add is
// silently skipped. This ordering (advance pc, then maybe act) matches
// decr's, and is what lets a decr jump target point at an incr that
// still runs normally.
func (m *VM) execIncr(s *parser.IncrStmt, pc int) error {
	m.PC = big.NewInt(int64(pc + 1))
	idxVal := m.evalIndex(s.Index)
	if idxVal.Sign() < 0 {
		return nil
	}
	v := m.evalValue(s.Value)
	cur := m.Registers.Read(idxVal)
	sum := new(big.Int).Add(cur, v)
	return m.Registers.Write(idxVal, sum)
}

// execDecr advances pc first, then subtracts Value from the register
// named by Index. If the result would be negative, pc is overwritten
// with Address instead of the normal pc+1 set above, and the register
// is left untouched.
func (m *VM) execDecr(s *parser.DecrStmt, pc int) error {
	m.PC = big.NewInt(int64(pc + 1))
	idxVal := m.evalIndex(s.Index)
	v := m.evalValue(s.Value)
	cur := m.Registers.Read(idxVal)
	diff := new(big.Int).Sub(cur, v)
	if diff.Sign() < 0 {
		m.PC = m.evalAddress(s.Address)
		return nil
	}
	return m.Registers.Write(idxVal, diff)
}

// execSave advances pc first, then unconditionally overwrites the
// register named by Index with Value — even when Index evaluates
// negative, unlike incr. A negative index here is a register-bounds
// fault, not a silent skip.
func (m *VM) execSave(s *parser.SaveStmt, pc int) error {
	m.PC = big.NewInt(int64(pc + 1))
	idxVal := m.evalIndex(s.Index)
	v := m.evalValue(s.Value)
	return m.Registers.Write(idxVal, v)
}

func (m *VM) execPutc(s *parser.PutcStmt, pc int) error {
	m.PC = big.NewInt(int64(pc + 1))
	v := m.evalValue(s.Value)
	if !v.IsInt64() {
		return NewFault(FaultInvalidCodepoint, "%s is not a valid Unicode code point", v.String())
	}
	r := rune(v.Int64())
	if v.Sign() < 0 || v.Int64() > utf8.MaxRune || !utf8.ValidRune(r) {
		return NewFault(FaultInvalidCodepoint, "%s is not a valid Unicode code point", v.String())
	}
	_, err := fmt.Fprintf(m.Output, "%c", r)
	return err
}

func (m *VM) execPutn(s *parser.PutnStmt, pc int) error {
	m.PC = big.NewInt(int64(pc + 1))
	v := m.evalValue(s.Value)
	_, err := fmt.Fprint(m.Output, v.String())
	return err
}

// evalIndex reads the register number an Index operand names. It never
// faults: the result may be negative (meaning "skip" for incr, "fault on
// write" for save/decr), and it is up to the caller to decide what that
// means.
func (m *VM) evalIndex(ix parser.Index) *big.Int {
	switch v := ix.(type) {
	case parser.DirectIndex:
		return new(big.Int).Set(v.N)
	case parser.IndirectIndex:
		return m.Registers.Read(v.N)
	default:
		panic(fmt.Sprintf("vm: unhandled index type %T", ix))
	}
}

func (m *VM) evalValue(v parser.Value) *big.Int {
	switch val := v.(type) {
	case parser.ImmediateValue:
		return new(big.Int).Set(val.N)
	case parser.RegisterValue:
		return m.Registers.Read(val.N)
	case parser.PointerValue:
		inner := m.Registers.Read(val.N)
		return m.Registers.Read(inner)
	default:
		panic(fmt.Sprintf("vm: unresolved or unhandled value type %T (did Resolve run?)", v))
	}
}

func (m *VM) evalAddress(a parser.Address) *big.Int {
	switch addr := a.(type) {
	case parser.ImmediateAddress:
		return new(big.Int).Set(addr.N)
	case parser.RegisterAddress:
		return m.Registers.Read(addr.N)
	default:
		panic(fmt.Sprintf("vm: unresolved or unhandled address type %T (did Resolve run?)", a))
	}
}
