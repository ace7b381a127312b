package analyzer

import "testing"

func TestTopKQueueOrdersDescending(t *testing.T) {
	q := NewTopKQueue()
	for _, pct := range []float64{10, 50, 30, 90, 20} {
		q.Insert(TopKEntry{SelfPercent: pct})
	}
	entries := q.Entries()
	if len(entries) != 5 {
		t.Fatalf("len = %d, want 5", len(entries))
	}
	want := []float64{90, 50, 30, 20, 10}
	for i, e := range entries {
		if e.SelfPercent != want[i] {
			t.Fatalf("entries[%d].SelfPercent = %v, want %v", i, e.SelfPercent, want[i])
		}
	}
}

func TestTopKQueueEvictsLowestOnOverflow(t *testing.T) {
	q := NewTopKQueue()
	for _, pct := range []float64{10, 20, 30, 40, 50} {
		q.Insert(TopKEntry{SelfPercent: pct})
	}
	q.Insert(TopKEntry{SelfPercent: 60})

	entries := q.Entries()
	if len(entries) != TopK {
		t.Fatalf("len = %d, want %d", len(entries), TopK)
	}
	for _, e := range entries {
		if e.SelfPercent == 10 {
			t.Fatalf("expected the lowest entry (10) to be evicted")
		}
	}
}

func TestTopKQueueTieDoesNotDisplace(t *testing.T) {
	q := NewTopKQueue()
	for _, pct := range []float64{10, 20, 30, 40, 50} {
		q.Insert(TopKEntry{SelfPercent: pct, SelfCycles: uint64(pct)})
	}
	// A tie with the current minimum must not displace it.
	q.Insert(TopKEntry{SelfPercent: 10, SelfCycles: 999})

	entries := q.Entries()
	last := entries[len(entries)-1]
	if last.SelfPercent != 10 || last.SelfCycles != 10 {
		t.Fatalf("tie displaced the original minimum: %+v", last)
	}
}
