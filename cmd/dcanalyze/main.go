// dcanalyze reads a function-entry/exit trace captured by the tracer
// package and renders it as a DOT call graph with a ranked top-5
// self-time table.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"golang.org/x/term"

	"github.com/tracecore/dcprof/analyzer"
)

func main() {
	tracePath := flag.String("t", "", "path to the captured trace file (required)")
	resolverPath := flag.String("a", "addr2line", "external address-to-symbol resolver tool")
	minPercent := flag.Float64("p", 0, "hide nodes/edges below this cumulative percentage (0..100, clamped)")
	outPath := flag.String("o", "graph.dot", "output DOT file path")
	verbose := flag.Bool("v", false, "print a summary after rendering")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dcanalyze -t trace.bin [options] program\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *tracePath == "" || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	programPath := flag.Arg(0)

	clampedMinPercent := math.Max(0, math.Min(100, *minPercent))

	errf := newDiagWriter(os.Stderr)

	result, err := analyzer.Run(analyzer.Options{
		ProgramPath:  programPath,
		TracePath:    *tracePath,
		ResolverPath: *resolverPath,
		MinPercent:   clampedMinPercent,
		Diag:         errf,
	}, *outPath)

	if err != nil {
		errf.errorf("%v\n", err)
		if result == nil {
			os.Exit(1)
		}
		// A partial graph was still written; report it but still fail.
		if *verbose {
			printSummary(result, *outPath)
		}
		os.Exit(1)
	}

	if *verbose {
		printSummary(result, *outPath)
	}
}

func printSummary(r *analyzer.Result, outPath string) {
	fmt.Printf("functions: %d\n", r.Symbols.Len())
	fmt.Printf("profile span: %d cycles\n", r.TotalCycles)
	fmt.Printf("wrote %s\n", outPath)
	for i, e := range r.TopK.Entries() {
		sym := r.Symbols.At(e.SymbolIndex)
		name := sym.Name
		if name == "" {
			name = fmt.Sprintf("0x%08x", sym.Address)
		}
		fmt.Printf("  %d. %-30s %6.2f%% self (%d cycles)\n", i+1, name, e.SelfPercent, e.SelfCycles)
	}
}

// diagWriter colors error lines (errorf) red when stderr is a terminal,
// and passes the analyzer's own diagnostic lines (resolver failures,
// unknown addresses) written through Write unstyled.
type diagWriter struct {
	w      *os.File
	colors bool
}

func newDiagWriter(w *os.File) *diagWriter {
	return &diagWriter{w: w, colors: term.IsTerminal(int(w.Fd()))}
}

func (d *diagWriter) Write(p []byte) (int, error) {
	return d.w.Write(p)
}

func (d *diagWriter) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if d.colors {
		fmt.Fprintf(d.w, "\033[38;2;220;40;40merror: %s\033[0m", msg)
		return
	}
	fmt.Fprintf(d.w, "error: %s", msg)
}
