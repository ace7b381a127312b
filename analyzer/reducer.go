// reducer.go - A5: self/cumulative cycle reduction (spec.md's
// self/cumulative reducer module), including the self-recursion
// presentation rule applied to the matrix's diagonal.

package analyzer

// Reduce computes every symbol's self-time percentage, ranks the
// top TopK by that percentage, and folds each self-recursive
// symbol's diagonal matrix cell to its full cumulative total so the
// DOT emitter's self-loop edges read as "time spent in this
// recursion" rather than a partial per-call accumulation.
func Reduce(symbols *SymbolTable, matrix *Matrix, total uint64) *TopKQueue {
	q := NewTopKQueue()
	stats := computeStats(symbols, matrix, total)

	for i, s := range stats {
		q.Insert(TopKEntry{SymbolIndex: i, SelfPercent: s.SelfPercent, SelfCycles: s.Self})

		if matrix.Get(i, i).TotalCalls > 0 {
			matrix.SetCycles(i, i, s.Cumulative)
		}
	}

	return q
}
