// dctrace-demo is a minimal worked example of instrumenting a program
// with the tracer package by hand, standing in for what a
// compiler-inserted entry/exit hook pair would otherwise emit
// automatically on every function call.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tracecore/dcprof/tracefmt"
	"github.com/tracecore/dcprof/tracer"
)

func main() {
	outPath := flag.String("o", "trace.bin", "trace output path")
	flag.Parse()

	counters := tracer.NewSimCounters()
	session := tracer.Open(*outPath, counters)
	tracer.InstallSignalTeardown(session)
	defer session.Close()

	if !session.Active() {
		fmt.Fprintf(os.Stderr, "dctrace-demo: failed to open %s for tracing\n", *outPath)
		os.Exit(1)
	}

	th := session.NewThread()
	main32 := tracefmt.BaseAddress | 0x1000
	helper32 := tracefmt.BaseAddress | 0x2000

	th.Enter(main32)
	runWorkload(th, helper32, 5)
	th.Exit(main32)
}

// runWorkload calls helper n times, recording each call's entry and
// exit the way a compiled program's own call sites would.
func runWorkload(th *tracer.Thread, helper32 uint32, n int) {
	for i := 0; i < n; i++ {
		th.Enter(helper32)
		helper(i)
		th.Exit(helper32)
	}
}

func helper(i int) {
	_ = i * i
}
