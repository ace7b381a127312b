package tracer

import (
	"sync/atomic"
	"time"
)

// SimCounters is a portable, allocation-free simulation of the target's
// performance-monitor registers. It backs Counters wherever a real
// memory-mapped register window (pmc_unix.go) isn't available: tests,
// non-unix hosts, and CI.
type SimCounters struct {
	running atomic.Bool
	start   int64
	evt0    atomic.Uint64
	evt1    atomic.Uint64
}

// NewSimCounters constructs a stopped simulated counter set.
func NewSimCounters() *SimCounters {
	return &SimCounters{}
}

// Start begins the elapsed-cycle simulation from the current instant.
func (c *SimCounters) Start() error {
	c.start = time.Now().UnixNano()
	c.running.Store(true)
	return nil
}

// Stop halts the simulation; Cycles reads zero until the next Start.
func (c *SimCounters) Stop() error {
	c.running.Store(false)
	return nil
}

// Cycles returns nanoseconds elapsed since Start as a stand-in for the
// target's cycle counter, measured on the wall clock (a clock step can
// make it move backwards); it is zero when not running.
func (c *SimCounters) Cycles() uint64 {
	if !c.running.Load() {
		return 0
	}
	return uint64(time.Now().UnixNano() - c.start)
}

// Event0 returns the simulated first auxiliary counter.
func (c *SimCounters) Event0() uint64 { return c.evt0.Load() }

// Event1 returns the simulated second auxiliary counter.
func (c *SimCounters) Event1() uint64 { return c.evt1.Load() }

// BumpEvent0 lets test harnesses simulate an auxiliary PMC event (a
// cache miss, a branch mispredict, ...) without real hardware.
func (c *SimCounters) BumpEvent0(n uint64) { c.evt0.Add(n) }

// BumpEvent1 is BumpEvent0's counterpart for the second event counter.
func (c *SimCounters) BumpEvent1(n uint64) { c.evt1.Add(n) }
