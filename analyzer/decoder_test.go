package analyzer

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/tracecore/dcprof/tracefmt"
)

func buildTrace(t *testing.T, events []struct {
	typ   tracefmt.EventType
	addr  uint32
	delta uint64
}) []byte {
	t.Helper()
	var buf []byte
	for _, e := range events {
		buf = tracefmt.AppendRecord(buf, e.typ, e.addr, e.delta)
	}
	return buf
}

func TestDecoderReconstructsCumulativeCycles(t *testing.T) {
	raw := buildTrace(t, []struct {
		typ   tracefmt.EventType
		addr  uint32
		delta uint64
	}{
		{tracefmt.Entry, tracefmt.BaseAddress | 0x10, 5},
		{tracefmt.Exit, tracefmt.BaseAddress | 0x10, 7},
	})

	dec, err := NewDecoder(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	ev1, err := dec.Next()
	if err != nil {
		t.Fatalf("Next (1): %v", err)
	}
	if ev1.Cycle != 5 {
		t.Fatalf("ev1.Cycle = %d, want 5", ev1.Cycle)
	}

	ev2, err := dec.Next()
	if err != nil {
		t.Fatalf("Next (2): %v", err)
	}
	if ev2.Cycle != 12 {
		t.Fatalf("ev2.Cycle = %d, want 12 (5+7)", ev2.Cycle)
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestDecoderTransparentlyGunzips(t *testing.T) {
	raw := buildTrace(t, []struct {
		typ   tracefmt.EventType
		addr  uint32
		delta uint64
	}{
		{tracefmt.Entry, tracefmt.BaseAddress | 0x20, 3},
	})

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(raw); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	dec, err := NewDecoder(&compressed)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	ev, err := dec.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Address != tracefmt.BaseAddress|0x20 || ev.Cycle != 3 {
		t.Fatalf("ev = %+v, want address 0x%x cycle 3", ev, tracefmt.BaseAddress|0x20)
	}
}

func TestDecoderSurfacesFramingErrorOnTruncation(t *testing.T) {
	raw := buildTrace(t, []struct {
		typ   tracefmt.EventType
		addr  uint32
		delta uint64
	}{
		{tracefmt.Entry, tracefmt.BaseAddress | 0x30, 9},
	})
	truncated := raw[:len(raw)-1]

	dec, err := NewDecoder(bytes.NewReader(truncated))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if _, err := dec.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected a truncation error, got %v", err)
	}
}
