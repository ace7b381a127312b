// matrix.go - A4: the caller/callee call-and-cycle matrix (spec.md's
// adjacency matrix module).

package analyzer

// CallEdge accumulates how many times, and for how many cycles, one
// function called another.
type CallEdge struct {
	TotalCalls  uint32
	TotalCycles uint64
}

// Matrix holds one CallEdge per (caller, callee) pair that was ever
// observed. Sparse by construction (a map, not a dense NxN grid):
// most of a 400x400 grid would sit empty for any real call graph.
type Matrix struct {
	cells map[[2]int]*CallEdge
}

// NewMatrix returns an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{cells: make(map[[2]int]*CallEdge)}
}

func (m *Matrix) edge(from, to int) *CallEdge {
	key := [2]int{from, to}
	e, ok := m.cells[key]
	if !ok {
		e = &CallEdge{}
		m.cells[key] = e
	}
	return e
}

// AddCall increments the call count on the (from, to) edge.
func (m *Matrix) AddCall(from, to int) {
	m.edge(from, to).TotalCalls++
}

// AddCycles adds cycles to the (from, to) edge's total.
func (m *Matrix) AddCycles(from, to int, cycles uint64) {
	m.edge(from, to).TotalCycles += cycles
}

// SetCycles overwrites an edge's cycle total outright — used for the
// self-recursion presentation rule, where a symbol's self-loop edge is
// set to its own cumulative total rather than accumulated delta by delta.
func (m *Matrix) SetCycles(from, to int, cycles uint64) {
	m.edge(from, to).TotalCycles = cycles
}

// Get returns the edge for (from, to), or a zero edge if none was ever recorded.
func (m *Matrix) Get(from, to int) CallEdge {
	if e, ok := m.cells[[2]int{from, to}]; ok {
		return *e
	}
	return CallEdge{}
}
