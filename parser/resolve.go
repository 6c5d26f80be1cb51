package parser

import (
	"fmt"
	"math/big"
)

// Resolve lowers an AST into an executable Program. It runs in two
// passes: first it walks every line to build the complete label table
// (so a label may be referenced before its definition), then it walks
// the statements again, rewriting every LabelValue/LabelAddress to an
// ImmediateValue/ImmediateAddress holding the label's line index, and
// every ProgramCounterValue/ProgramCounterAddress to an ImmediateValue/
// ImmediateAddress holding pc+1 (the index of the line after the current
// one, per the machine's "pc already advanced" execution order).
func Resolve(ast *AST) (*Program, *SymbolTable, error) {
	table := NewSymbolTable()
	for i, line := range ast.Lines {
		if line.HasLabel {
			table.Define(line.Label, i)
		}
	}

	prog := &Program{Statements: make([]Statement, len(ast.Lines))}
	for i, line := range ast.Lines {
		stmt, err := resolveStatement(line.Stmt, table, i)
		if err != nil {
			return nil, table, err
		}
		prog.Statements[i] = stmt
	}

	return prog, table, nil
}

func resolveStatement(stmt Statement, table *SymbolTable, pc int) (Statement, error) {
	switch s := stmt.(type) {
	case *IncrStmt:
		v, err := resolveValue(s.Value, table, pc)
		if err != nil {
			return nil, err
		}
		return &IncrStmt{Index: s.Index, Value: v}, nil

	case *DecrStmt:
		addr, err := resolveAddress(s.Address, table, pc)
		if err != nil {
			return nil, err
		}
		v, err := resolveValue(s.Value, table, pc)
		if err != nil {
			return nil, err
		}
		return &DecrStmt{Index: s.Index, Address: addr, Value: v}, nil

	case *SaveStmt:
		v, err := resolveValue(s.Value, table, pc)
		if err != nil {
			return nil, err
		}
		return &SaveStmt{Index: s.Index, Value: v}, nil

	case *PutcStmt:
		v, err := resolveValue(s.Value, table, pc)
		if err != nil {
			return nil, err
		}
		return &PutcStmt{Value: v}, nil

	case *PutnStmt:
		v, err := resolveValue(s.Value, table, pc)
		if err != nil {
			return nil, err
		}
		return &PutnStmt{Value: v}, nil

	case *HaltStmt:
		return s, nil

	default:
		return nil, fmt.Errorf("resolve: unhandled statement type %T", stmt)
	}
}

func resolveValue(v Value, table *SymbolTable, pc int) (Value, error) {
	switch val := v.(type) {
	case LabelValue:
		target, ok := table.Lookup(val.Name)
		if !ok {
			return nil, NewError(val.Pos, ErrorUnknownLabel,
				fmt.Sprintf("undefined label %q", val.Name))
		}
		return ImmediateValue{N: big.NewInt(int64(target))}, nil
	case ProgramCounterValue:
		return ImmediateValue{N: big.NewInt(int64(pc + 1))}, nil
	default:
		return v, nil
	}
}

func resolveAddress(a Address, table *SymbolTable, pc int) (Address, error) {
	switch addr := a.(type) {
	case LabelAddress:
		target, ok := table.Lookup(addr.Name)
		if !ok {
			return nil, NewError(addr.Pos, ErrorUnknownLabel,
				fmt.Sprintf("undefined label %q", addr.Name))
		}
		return ImmediateAddress{N: big.NewInt(int64(target))}, nil
	case ProgramCounterAddress:
		return ImmediateAddress{N: big.NewInt(int64(pc + 1))}, nil
	default:
		return a, nil
	}
}
