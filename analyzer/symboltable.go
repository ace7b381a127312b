// symboltable.go - A3: append-only symbol table (spec.md, symbol table module).

package analyzer

import "fmt"

// MaxFunctions bounds the number of distinct functions one analysis
// run can track. Exceeding it is a capacity error.
const MaxFunctions = 400

// MaxResolvedNameLen bounds a resolved function name's displayed length.
const MaxResolvedNameLen = 50

// Symbol is one function's accumulated totals across an entire trace.
type Symbol struct {
	Address     uint32
	Name        string // empty if the resolver failed or was never run
	TotalCalls  uint32
	TotalCycles uint64 // cumulative: this function's time plus everything it called
}

// SymbolTable is the append-only, ≤MaxFunctions table of every function
// seen on entry. Lookups are served from an index map rather than the
// linear scan of the target device (the device has no map type and no
// RAM to spare for one; this analyzer runs off-target with neither
// constraint).
type SymbolTable struct {
	symbols []Symbol
	index   map[uint32]int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[uint32]int)}
}

// Lookup returns the index of address in the table, or -1 if address
// has never been entered.
func (t *SymbolTable) Lookup(address uint32) int {
	if idx, ok := t.index[address]; ok {
		return idx
	}
	return -1
}

// AddSymbol records one more entry of address. If address is new, it
// is resolved via resolve and appended; resolver failures are
// non-fatal and surface as a returned *ResolverError while the symbol
// still gets its slot (with an empty name). A full table is fatal and
// returns idx == -1 wrapped around ErrCapacity; callers must treat
// that case as terminal.
func (t *SymbolTable) AddSymbol(address uint32, resolve func(uint32) (string, error)) (int, error) {
	if idx, ok := t.index[address]; ok {
		t.symbols[idx].TotalCalls++
		return idx, nil
	}
	if len(t.symbols) >= MaxFunctions {
		return -1, fmt.Errorf("%w: symbol table full at address 0x%08X", ErrCapacity, address)
	}

	name, rerr := resolve(address)
	idx := len(t.symbols)
	t.symbols = append(t.symbols, Symbol{Address: address, Name: name, TotalCalls: 1})
	t.index[address] = idx

	if rerr != nil {
		return idx, &ResolverError{Address: address, Err: rerr}
	}
	return idx, nil
}

// Len returns the number of symbols recorded so far.
func (t *SymbolTable) Len() int { return len(t.symbols) }

// At returns a pointer to the i'th symbol for in-place mutation by the reducer.
func (t *SymbolTable) At(i int) *Symbol { return &t.symbols[i] }
