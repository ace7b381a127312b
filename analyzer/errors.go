// errors.go - spec.md §7's error taxonomy as sentinel errors that callers
// can match with errors.Is. cmd/dcanalyze exits 1 on any error without
// distinguishing between them.

package analyzer

import (
	"errors"
	"fmt"
)

// ErrConfig marks a configuration error: missing program argument,
// unreadable trace file, unreadable resolver.
var ErrConfig = errors.New("configuration error")

// ErrFraming marks a framing error in the trace wire format: truncated
// event, invalid type byte, oversize delta length.
var ErrFraming = errors.New("framing error")

// ErrCapacity marks a capacity error: the symbol table or shadow stack
// is full. Fatal.
var ErrCapacity = errors.New("capacity error")

// ErrOutput marks a failure to create or write graph.dot.
var ErrOutput = errors.New("output error")

// ResolverError wraps a failed or empty external-resolver lookup. It is
// non-fatal: the symbol simply keeps an empty name and the run
// continues (spec.md §7).
type ResolverError struct {
	Address uint32
	Err     error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("resolver: address 0x%08X: %v", e.Address, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }
