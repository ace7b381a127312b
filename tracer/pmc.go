// pmc.go - performance-monitor counter abstraction (T1).
//
// The real target exposes its elapsed-cycle counter and two auxiliary
// event counters (cache misses, branch mispredicts, ...) as
// memory-mapped registers. Counters hides the backend behind a small
// interface so the hot path in thread.go never cares whether it is
// talking to real mmap'd registers (pmc_unix.go) or the portable
// software simulation used in tests (pmc_sim.go) — the same
// backend-selection shape the teacher uses for its audio/video chips.

package tracer

// Counters reads the target's free-running performance-monitor
// registers. Start/Stop configure and tear down the hardware counter in
// elapsed-cycle mode (spec.md §4.3); Cycles/Event0/Event1 are read on
// every hook invocation and must be cheap and allocation-free.
type Counters interface {
	Start() error
	Stop() error
	Cycles() uint64
	Event0() uint64
	Event1() uint64
}
