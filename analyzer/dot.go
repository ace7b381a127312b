// dot.go - A6: deterministic DOT graph-description emission (spec.md's
// graph emitter module). Node iteration is always by symbol index, not
// map order, so two runs over the same trace byte-for-byte produce the
// same file modulo the caption's timestamp.

package analyzer

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// edgeBoldThreshold is the edge-percentage cutoff (the edge's own
// cycles as a percentage of the profile total) above which an edge is
// drawn bold (spec.md's graph emitter module).
const edgeBoldThreshold = 0.35

// DotOptions configures rendering beyond the call graph's own data.
type DotOptions struct {
	ProgramName string
	Now         time.Time // caption timestamp; injected so tests stay deterministic
	MinPercent  float64   // hide nodes/edges below this cumulative percentage
}

// WriteDot renders the complete graph to w: cluster0 holds the call
// graph itself, cluster1 the top-K self-time table, followed by a
// caption naming the program and render time.
func WriteDot(w io.Writer, symbols *SymbolTable, matrix *Matrix, total uint64, topK *TopKQueue, opts DotOptions) error {
	bw := bufio.NewWriter(w)
	stats := computeStats(symbols, matrix, total)

	fmt.Fprintf(bw, "digraph program {\n\n")

	fmt.Fprintf(bw, "\tsubgraph cluster0 {\n\t\tratio=fill;\n\t\tnode [style=filled];\n\t\tperipheries=0;\n\n")
	writeNodes(bw, symbols, stats, opts.MinPercent)
	writeEdges(bw, symbols, matrix, stats, total, opts.MinPercent)
	fmt.Fprintf(bw, "\t}\n\n")

	fmt.Fprintf(bw, "\tsubgraph cluster1 {\n\t\tperipheries=0;\n\t\tfontname=\"Helvetica,Arial,sans-serif\";\n\t\tnode [fontname=\"Helvetica,Arial,sans-serif\"]\n\t\tedge [fontname=\"Helvetica,Arial,sans-serif\"]\n\n")
	writeTable(bw, symbols, topK)
	fmt.Fprintf(bw, "\t}\n\n")

	writeCaption(bw, opts.ProgramName, opts.Now)

	fmt.Fprintf(bw, "\n}\n")
	return bw.Flush()
}

func writeNodes(w io.Writer, symbols *SymbolTable, stats []symStat, minPercent float64) {
	for i := 0; i < symbols.Len(); i++ {
		s := stats[i]
		if s.CumPercent < minPercent {
			continue
		}
		name := displayName(symbols.At(i))
		shape := "ellipse"
		if s.Other > 0 {
			shape = "rectangle"
		}
		fmt.Fprintf(w, "\t\t%s [label=\"%s\\n%.2f%%\\n(%.2f%%)\\n%d x\" fontcolor=\"white\" color=\"%s\" shape=%s]\n",
			dotQuote(name), escapeLabel(name), s.CumPercent, s.SelfPercent, symbols.At(i).TotalCalls,
			ColorFromPercent(s.CumPercent), shape)
	}
	fmt.Fprintln(w)
}

func writeEdges(w io.Writer, symbols *SymbolTable, matrix *Matrix, stats []symStat, total uint64, minPercent float64) {
	n := symbols.Len()
	for i := 0; i < n; i++ {
		if stats[i].CumPercent < minPercent {
			continue
		}
		fromName := displayName(symbols.At(i))
		for j := 0; j < n; j++ {
			if stats[j].CumPercent < minPercent {
				continue
			}
			edge := matrix.Get(i, j)
			if edge.TotalCalls == 0 {
				continue
			}
			toName := displayName(symbols.At(j))

			var pct float64
			if total > 0 {
				pct = 100 * float64(edge.TotalCycles) / float64(total)
			}
			style := "solid"
			if pct > edgeBoldThreshold {
				style = "bold"
			}

			var label string
			if i == j {
				label = fmt.Sprintf("  %d x", edge.TotalCalls)
			} else {
				label = fmt.Sprintf("  %0.2f%%\\n %d x", pct, edge.TotalCalls)
			}

			fmt.Fprintf(w, "\t\t%s -> %s [label=\"%s\" color=\"%s\" style=\"%s\" fontsize=\"10\"]\n",
				dotQuote(fromName), dotQuote(toName), label, ColorFromPercent(pct), style)
		}
	}
}

func writeTable(w io.Writer, symbols *SymbolTable, topK *TopKQueue) {
	fmt.Fprintf(w, "\t\ta0 [shape=none label=<<TABLE border=\"0\" cellspacing=\"3\" cellpadding=\"10\" bgcolor=\"black\">\n\n")
	for i, e := range topK.Entries() {
		name := displayName(symbols.At(e.SymbolIndex))
		fmt.Fprintf(w, "\t\t<TR>\n")
		fmt.Fprintf(w, "\t\t<TD bgcolor=\"white\">%d</TD>\n", i+1)
		fmt.Fprintf(w, "\t\t<TD bgcolor=\"white\">%s</TD>\n", html.EscapeString(name))
		fmt.Fprintf(w, "\t\t<TD bgcolor=\"white\">%.2f%%</TD>\n", e.SelfPercent)
		fmt.Fprintf(w, "\t\t<TD bgcolor=\"white\">%d cycles</TD>\n", e.SelfCycles)
		fmt.Fprintf(w, "\t\t</TR>\n\n")
	}
	fmt.Fprintf(w, "\t\t</TABLE>>];\n")
}

func writeCaption(w io.Writer, programName string, now time.Time) {
	hour := now.Hour()
	ampm := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		ampm = "PM"
	case hour > 12:
		hour -= 12
		ampm = "PM"
	}
	fmt.Fprintf(w, "\tgraph [\n\t\tfontname = \"Helvetica-Oblique\",\n\t\tfontsize = 32,\n\t\tlabel = \"\\n\\n%s\\n%d/%d/%d @ %d:%02d %s\"\n\t];\n",
		programName, int(now.Month()), now.Day(), now.Year(), hour, now.Minute(), ampm)
}

// displayName falls back to the raw address when the resolver never
// produced a name — keeps every node and edge labeled even for an
// unresolved call site.
func displayName(s *Symbol) string {
	if s.Name == "" {
		return fmt.Sprintf("0x%08x", s.Address)
	}
	return s.Name
}

// dotQuote wraps s in double quotes, escaping any embedded quote or
// backslash so it is always a valid DOT identifier or endpoint.
func dotQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// escapeLabel escapes quotes/backslashes for text embedded inside an
// already-quoted label="..." attribute.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
