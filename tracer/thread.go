// thread.go - T1: the per-thread hot path invoked at every traced
// function's entry and exit.

package tracer

import (
	"github.com/tracecore/dcprof/tracefmt"
)

// pageSize is the staging page capacity: 8 KiB amortizes the flush
// syscall cost across many events (spec.md §4.1).
const pageSize = 8192

// Thread is one producer's per-thread state: its staging page, write
// cursor, and the last observed counter values used to delta-encode
// the next event. A Thread is not safe for concurrent use by more than
// one goroutine — each producer owns exactly one, obtained once from
// Session.NewThread and held for that producer's lifetime. This is the
// idiomatic Go stand-in for the compiler-inserted, thread-local staging
// page spec.md §4.1/§9 describes: Go has neither automatic profiling
// hooks nor true TLS, so a generated call-site shim (or a manually
// instrumented program) holds its Thread handle directly rather than
// fetching it from an implicit slot.
type Thread struct {
	session *Session
	id      uint16

	page   [pageSize]byte
	cursor int

	lastCycle uint64
	// lastEvt0/lastEvt1 track the two auxiliary performance-monitor
	// counters per spec.md §4.1's per-thread state even though the
	// canonical wire variant this tracer emits (the one the analyzer
	// accepts, §6) only carries delta_cycles; a build targeting the
	// 20- or 12-byte alternate format would consume them directly.
	lastEvt0 uint64
	lastEvt1 uint64

	inHook bool // reentrancy guard: no hook may invoke itself
}

// Enter records a function-entry event for addr.
func (t *Thread) Enter(addr uint32) { t.record(tracefmt.Entry, addr) }

// Exit records a function-exit event for addr.
func (t *Thread) Exit(addr uint32) { t.record(tracefmt.Exit, addr) }

func (t *Thread) record(typ tracefmt.EventType, addr uint32) {
	if t.inHook {
		return
	}
	t.inHook = true
	defer func() { t.inHook = false }()

	if t.session == nil || !t.session.active.Load() {
		return
	}

	cycles := t.session.counters.Cycles()
	t.lastEvt0 = t.session.counters.Event0()
	t.lastEvt1 = t.session.counters.Event1()

	deltaCycles := cycles - t.lastCycle
	t.lastCycle = cycles

	dst := tracefmt.AppendRecord(t.page[:t.cursor], typ, addr, deltaCycles)
	t.cursor = len(dst)

	if pageSize-t.cursor < tracefmt.MaxRecordLen {
		t.flush()
	}
}

// flush writes the page's valid prefix to the shared writer and resets
// the cursor, whether or not the write succeeds (spec.md §4.2: "the
// producer's cursor is still reset").
func (t *Thread) flush() {
	if t.cursor == 0 {
		return
	}
	if t.session.writer != nil {
		t.session.writer.Flush(t.page[:t.cursor])
	}
	t.cursor = 0
}
