// lifecycle.go - T3: startup, teardown, and the per-thread registry.

package tracer

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Session is the tracer's process-wide state: the shared output file,
// its writer, the performance counters, and every registered
// per-thread staging page. It is the explicit, scoped tracer context
// Design Notes §9 calls for in place of ambient global state.
type Session struct {
	active   atomic.Bool
	writer   *Writer
	counters Counters

	mu      sync.Mutex
	threads []*Thread
}

// Open opens path for writing, truncating any existing content, and
// starts the performance counters in elapsed-cycle mode. If path
// cannot be opened or the counters fail to start, Open still returns a
// Session whose hooks are permanent no-ops for this run — spec.md
// §4.3: "If the output file cannot be opened, every event hook becomes
// a no-op for the run."
func Open(path string, counters Counters) *Session {
	s := &Session{counters: counters}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracer: cannot open %s, tracing disabled for this run: %v\n", path, err)
		return s
	}

	if err := counters.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "tracer: cannot start performance counters, tracing disabled for this run: %v\n", err)
		f.Close()
		return s
	}

	s.writer = newWriter(f)
	s.active.Store(true)
	return s
}

// NewThread registers a new per-thread staging page with the session
// and returns a handle for one producer to call Enter/Exit on.
func (s *Session) NewThread() *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Thread{session: s, id: uint16(len(s.threads))}
	s.threads = append(s.threads, t)
	return t
}

// Active reports whether tracing is currently live for this session.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Close is the teardown hook: it flushes every registered thread's
// non-empty staging page under the mutex, calls the counters' Stop, and
// closes the trace file. Close does not clear the counter registers
// itself: SimCounters reads zero after Stop, while MmapCounters keeps its
// counter registers and only drops the run bit. Close is idempotent
// and safe to call on a Session whose Open failed. Callers must ensure
// no producer thread is still calling Enter/Exit when Close runs — the
// real target's teardown hook runs after the host program has already
// stopped executing instrumented code, and this mirrors that ordering
// rather than adding synchronization to the hot path to support it.
func (s *Session) Close() error {
	if !s.active.CompareAndSwap(true, false) {
		return nil
	}

	s.mu.Lock()
	for _, t := range s.threads {
		t.flush()
	}
	s.mu.Unlock()

	if err := s.counters.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "tracer: stopping performance counters: %v\n", err)
	}

	if s.writer != nil {
		return s.writer.close()
	}
	return nil
}

// InstallSignalTeardown arranges for SIGINT/SIGTERM to call Close
// before the process exits: the idiomatic Go stand-in for the
// compiler-registered atexit teardown hook spec.md §4.3 describes.
// Programs that manage their own shutdown sequence should call Close
// directly instead of using this helper.
func InstallSignalTeardown(s *Session) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		s.Close()
		os.Exit(1)
	}()
}
