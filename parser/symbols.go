package parser

// SymbolTable maps label names to the program-counter value a label
// stands for: the index of the line that carries it. Unlike an assembler
// with multiple symbol kinds (constants, variables, relocations), aaron-asm
// has exactly one kind of symbol, so this is a thin wrapper over a map.
//
// Defining the same label twice is legal; the later definition wins,
// matching the sequential-insertion, last-write-wins semantics a Rust
// HashMap built by repeated .insert() would exhibit.
type SymbolTable struct {
	symbols map[string]int
	used    map[string]bool
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]int),
		used:    make(map[string]bool),
	}
}

// Define records that name stands for pc. A later call for the same name
// overwrites the earlier one.
func (st *SymbolTable) Define(name string, pc int) {
	st.symbols[name] = pc
}

// Lookup returns the pc a label was defined at, and whether it was
// defined at all. It also marks the label as referenced, for
// GetUnusedLabels.
func (st *SymbolTable) Lookup(name string) (int, bool) {
	st.used[name] = true
	pc, ok := st.symbols[name]
	return pc, ok
}

// Names returns every defined label name, in no particular order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.symbols))
	for name := range st.symbols {
		names = append(names, name)
	}
	return names
}

// GetUnusedLabels returns every label that was defined but never looked
// up by a Value or Address operand. Used by tools.Lint.
func (st *SymbolTable) GetUnusedLabels() []string {
	var unused []string
	for name := range st.symbols {
		if !st.used[name] {
			unused = append(unused, name)
		}
	}
	return unused
}
