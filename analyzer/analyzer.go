// analyzer.go - ties decode, shadow-stack reconstruction, reduction,
// and DOT emission into one pass over a trace file. cmd/dcanalyze is a
// thin flag-parsing shell around Run.

package analyzer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tracecore/dcprof/tracefmt"
)

// Options configures one trace-to-graph pass.
type Options struct {
	ProgramPath  string
	TracePath    string
	ResolverPath string
	MinPercent   float64
	Diag         io.Writer // verbose/error diagnostics; os.Stderr if nil

	// Resolve overrides the default subprocess-backed Resolver, mainly
	// for tests and for callers that already built a BatchResolver.
	Resolve func(uint32) (string, error)
}

// Result summarizes one completed pass.
type Result struct {
	Symbols      *SymbolTable
	Matrix       *Matrix
	TopK         *TopKQueue
	ProfileStart uint64
	ProfileEnd   uint64
	TotalCycles  uint64
}

// Run decodes opts.TracePath, reconstructs the call graph, reduces it,
// and writes a DOT digraph to outputPath. A framing or capacity error
// halts decoding early but does not prevent the DOT file from being
// written with whatever was accumulated up to that point — matching
// the spirit of "emit whatever has been accumulated" diagnostics
// elsewhere in this toolchain. Run returns that error alongside the
// otherwise-complete Result so callers can still report it and exit
// non-zero.
func Run(opts Options, outputPath string) (*Result, error) {
	diag := opts.Diag
	if diag == nil {
		diag = os.Stderr
	}

	f, err := os.Open(opts.TracePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening trace file: %v", ErrConfig, err)
	}
	defer f.Close()

	dec, err := NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	resolve := opts.Resolve
	if resolve == nil {
		resolve = NewResolver(opts.ResolverPath, opts.ProgramPath).Resolve
	}
	symbols := NewSymbolTable()
	matrix := NewMatrix()
	stack := NewShadowStack()

	var profileStart, profileEnd uint64
	var sawEvent bool
	var runErr error

eventLoop:
	for {
		ev, err := dec.Next()
		if err != nil {
			if err != io.EOF {
				runErr = fmt.Errorf("%w: %v", ErrFraming, err)
			}
			break eventLoop
		}

		if !sawEvent {
			profileStart = ev.Cycle
			sawEvent = true
		}
		profileEnd = ev.Cycle

		switch ev.Type {
		case tracefmt.Entry:
			idx, rerr := symbols.AddSymbol(ev.Address, resolve)
			if idx < 0 {
				runErr = rerr
				break eventLoop
			}
			if rerr != nil {
				fmt.Fprintf(diag, "%v\n", rerr)
			}

			if top, ok := stack.TopAddress(); ok {
				if parentIdx := symbols.Lookup(top); parentIdx >= 0 {
					matrix.AddCall(parentIdx, idx)
				} else {
					fmt.Fprintf(diag, "analyzer: address 0x%08X not found while recording call\n", top)
				}
			}
			if perr := stack.Push(ev.Address, ev.Cycle); perr != nil {
				runErr = perr
				break eventLoop
			}

		case tracefmt.Exit:
			addr, start, ok := stack.Pop()
			if !ok {
				// An exit with no matching entry: attribute it to
				// itself rather than drop it silently.
				addr, start = ev.Address, ev.Cycle
			}
			closeFrame(diag, symbols, matrix, stack, addr, start, ev.Cycle)
		}
	}

	// Drain whatever frames were still open at end of stream, closing
	// them against the last cycle value observed.
	for {
		addr, start, ok := stack.Pop()
		if !ok {
			break
		}
		closeFrame(diag, symbols, matrix, stack, addr, start, profileEnd)
	}

	total := profileEnd - profileStart
	topK := Reduce(symbols, matrix, total)

	out, werr := os.Create(outputPath)
	if werr != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrOutput, outputPath, werr)
	}
	defer out.Close()

	dotErr := WriteDot(out, symbols, matrix, total, topK, DotOptions{
		ProgramName: opts.ProgramPath,
		Now:         time.Now(),
		MinPercent:  opts.MinPercent,
	})

	result := &Result{
		Symbols: symbols, Matrix: matrix, TopK: topK,
		ProfileStart: profileStart, ProfileEnd: profileEnd, TotalCycles: total,
	}

	if dotErr != nil {
		return result, fmt.Errorf("%w: writing dot output: %v", ErrOutput, dotErr)
	}
	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// closeFrame implements the self-recursion attribution rule: when a
// function returns into another activation of itself, that inner
// span's elapsed time is already going to be part of the outer
// activation's own span once it in turn closes, so it is neither
// added to the symbol's cumulative total nor credited to any edge —
// only the outermost close of a recursive run contributes cycles.
// Returning into a different symbol (or no symbol at all) always
// credits the callee's cumulative total and, when a caller is known,
// that caller's edge.
func closeFrame(diag io.Writer, symbols *SymbolTable, matrix *Matrix, stack *ShadowStack, address uint32, start, now uint64) {
	idx := symbols.Lookup(address)
	if idx < 0 {
		fmt.Fprintf(diag, "analyzer: address 0x%08X not found while closing frame\n", address)
		return
	}

	top, hasParent := stack.TopAddress()
	parentIdx := -1
	if hasParent {
		parentIdx = symbols.Lookup(top)
	}
	if parentIdx == idx {
		return
	}

	symbols.At(idx).TotalCycles += now - start
	switch {
	case parentIdx >= 0:
		matrix.AddCycles(parentIdx, idx, now-start)
	case hasParent:
		fmt.Fprintf(diag, "analyzer: address 0x%08X not found while closing frame\n", top)
	}
}
