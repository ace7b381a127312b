// stats.go - per-symbol derived quantities shared by the reducer and
// the DOT emitter, so both compute "self" time identically.

package analyzer

// symStat holds one function's self/cumulative cycle split and the
// percentages the DOT emitter and top-K table both render.
type symStat struct {
	Cumulative  uint64
	Other       uint64 // cycles attributed to everything this function called
	Self        uint64
	CumPercent  float64
	SelfPercent float64
}

// computeStats derives, for every symbol, the cycles spent in callees
// ("other"), the remainder ("self"), and both as a percentage of
// total. total is profile_end - profile_start; if it's zero (an empty
// or single-instant trace) every percentage is reported as zero.
func computeStats(symbols *SymbolTable, matrix *Matrix, total uint64) []symStat {
	n := symbols.Len()
	stats := make([]symStat, n)
	for i := 0; i < n; i++ {
		var other uint64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			other += matrix.Get(i, j).TotalCycles
		}
		cumulative := symbols.At(i).TotalCycles
		self := cumulative - other

		s := symStat{Cumulative: cumulative, Other: other, Self: self}
		if total > 0 {
			s.CumPercent = 100 * float64(cumulative) / float64(total)
			s.SelfPercent = 100 * float64(self) / float64(total)
		}
		stats[i] = s
	}
	return stats
}
