package tracer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	if err := os.WriteFile(path, []byte("stale contents"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	s := Open(path, NewSimCounters())
	defer s.Close()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected truncated empty file, got %d bytes", len(data))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	s := Open(path, NewSimCounters())
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got: %v", err)
	}
}

func TestOpenFailsGracefullyOnUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "trace.bin")
	s := Open(path, NewSimCounters())
	if s.Active() {
		t.Fatalf("expected inactive session for an unopenable path")
	}
	th := s.NewThread()
	th.Enter(0)
	th.Exit(0)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
