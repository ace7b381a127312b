package analyzer

import "testing"

func TestMatrixAccumulates(t *testing.T) {
	m := NewMatrix()
	m.AddCall(0, 1)
	m.AddCall(0, 1)
	m.AddCycles(0, 1, 100)
	m.AddCycles(0, 1, 50)

	e := m.Get(0, 1)
	if e.TotalCalls != 2 {
		t.Fatalf("TotalCalls = %d, want 2", e.TotalCalls)
	}
	if e.TotalCycles != 150 {
		t.Fatalf("TotalCycles = %d, want 150", e.TotalCycles)
	}
}

func TestMatrixGetMissingIsZero(t *testing.T) {
	m := NewMatrix()
	e := m.Get(3, 4)
	if e.TotalCalls != 0 || e.TotalCycles != 0 {
		t.Fatalf("expected zero edge for an unrecorded pair, got %+v", e)
	}
}

func TestMatrixSetCyclesOverwrites(t *testing.T) {
	m := NewMatrix()
	m.AddCycles(2, 2, 10)
	m.SetCycles(2, 2, 999)
	if got := m.Get(2, 2).TotalCycles; got != 999 {
		t.Fatalf("TotalCycles after SetCycles = %d, want 999", got)
	}
}
