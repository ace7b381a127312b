package tracefmt

import (
	"bytes"
	"testing"
)

func TestAlt20RoundTrip(t *testing.T) {
	want := AltRecord{Entry: true, ThreadID: 7, Address: BaseAddress | 0x2244, DeltaTimeNanos: 555, DeltaEvt0: 10, DeltaEvt1: 20}
	buf := EncodeAlt20(nil, want)
	if len(buf) != 20 {
		t.Fatalf("expected 20 bytes, got %d", len(buf))
	}
	got, err := DecodeAlt20(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAlt12RoundTrip(t *testing.T) {
	want := AltRecord{Entry: false, ThreadID: 300, Address: BaseAddress + (123 << offsetShift), DeltaTimeNanos: 77, DeltaEvt0: 9, DeltaEvt1: 3}
	buf := EncodeAlt12(nil, want)
	if len(buf) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(buf))
	}
	got, err := DecodeAlt12(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// thread id field is 9 bits (0..511); 300 fits, so masking leaves it unchanged.
	want.ThreadID &= threadIDMask
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAlt12ClampsEventDeltas(t *testing.T) {
	rec := AltRecord{Address: BaseAddress, DeltaEvt0: 1 << 20, DeltaEvt1: 70000}
	buf := EncodeAlt12(nil, rec)
	got, err := DecodeAlt12(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DeltaEvt0 != 0xFFFF || got.DeltaEvt1 != 0xFFFF {
		t.Fatalf("expected clamped deltas, got %+v", got)
	}
}
