//go:build unix

package tracer

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegisterWindow is the byte length of the simulated memory-mapped
// performance-counter window (one page). Its first 32 bytes hold the
// register file: a 64-bit control word followed by three 64-bit counter
// registers (cycles, event0, event1), laid out the way a
// PMCR/PMCTR-style register block is on the real target.
const mmapRegisterWindow = 4096

const (
	regCtrl  = 0 * 8
	regCycle = 1 * 8
	regEvt0  = 2 * 8
	regEvt1  = 3 * 8
)

// MmapCounters backs Counters with a real mmap'd region: the host
// analogue of the target's memory-mapped PMCR/PMCTR registers. On a
// cross-compiled embedded build this window would be the fixed physical
// address the linker script places the PMC block at; on a development
// host it mmaps a regular backing file so the hot path exercises the
// identical load/store pattern it would on target.
type MmapCounters struct {
	f    *os.File
	data []byte
}

// NewMmapCounters opens (creating if needed) backingFile and maps
// mmapRegisterWindow bytes from it as the register window.
func NewMmapCounters(backingFile string) (*MmapCounters, error) {
	f, err := os.OpenFile(backingFile, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("tracer: opening register backing file: %w", err)
	}
	if err := f.Truncate(mmapRegisterWindow); err != nil {
		f.Close()
		return nil, fmt.Errorf("tracer: sizing register backing file: %w", err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, mmapRegisterWindow, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tracer: mmap register window: %w", err)
	}
	return &MmapCounters{f: f, data: data}, nil
}

// Start writes the run bit into the control register.
func (c *MmapCounters) Start() error {
	putReg(c.data[regCtrl:], 1)
	return nil
}

// Stop clears the run bit, leaving the counter registers intact.
func (c *MmapCounters) Stop() error {
	putReg(c.data[regCtrl:], 0)
	return nil
}

// Cycles reads the elapsed-cycle register.
func (c *MmapCounters) Cycles() uint64 { return getReg(c.data[regCycle:]) }

// Event0 reads the first auxiliary event register.
func (c *MmapCounters) Event0() uint64 { return getReg(c.data[regEvt0:]) }

// Event1 reads the second auxiliary event register.
func (c *MmapCounters) Event1() uint64 { return getReg(c.data[regEvt1:]) }

// Tick advances the simulated cycle register. A real target's hardware
// counter free-runs on its own; this exists only so host-side tests and
// demos can drive the register window without real silicon.
func (c *MmapCounters) Tick(delta uint64) {
	putReg(c.data[regCycle:], getReg(c.data[regCycle:])+delta)
}

// Close unmaps the register window and closes the backing file.
func (c *MmapCounters) Close() error {
	if err := unix.Munmap(c.data); err != nil {
		return fmt.Errorf("tracer: munmap register window: %w", err)
	}
	return c.f.Close()
}

func getReg(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}

func putReg(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
