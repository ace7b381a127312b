// resolver.go - A3: the external address-to-symbol bridge (spec.md's
// resolver module). Each lookup shells out to a separately supplied
// tool, the same way the target toolchain's own addr2line invocation
// turns a raw address into a function name.

package analyzer

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Resolver runs one subprocess per lookup. Simple, and sufficient for
// traces with at most MaxFunctions distinct call sites.
type Resolver struct {
	toolPath    string
	programPath string
}

// NewResolver returns a Resolver that invokes toolPath against programPath.
func NewResolver(toolPath, programPath string) *Resolver {
	return &Resolver{toolPath: toolPath, programPath: programPath}
}

// Resolve runs "<toolPath> -e <programPath> -f -s 0x<address>" and
// returns its first output line, trimmed of trailing newline and
// truncated to MaxResolvedNameLen. Any failure, or an empty line,
// yields a non-nil error; the caller treats that as non-fatal.
func (r *Resolver) Resolve(address uint32) (string, error) {
	cmd := exec.Command(r.toolPath, "-e", r.programPath, "-f", "-s", fmt.Sprintf("0x%x", address))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("piping stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", r.toolPath, err)
	}

	scanner := bufio.NewScanner(stdout)
	var line string
	if scanner.Scan() {
		line = scanner.Text()
	}
	_ = cmd.Wait()

	return trimResolvedName(line, address)
}

func trimResolvedName(line string, address uint32) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("empty resolver output for address 0x%08X", address)
	}
	if len(line) > MaxResolvedNameLen {
		line = line[:MaxResolvedNameLen]
	}
	return line, nil
}

// BatchResolver pipes many lookups through a single long-lived
// subprocess instead of paying fork/exec per address — an additive
// optimization for traces with many distinct call sites. It assumes
// the tool accepts one "0x<addr>" query per line on stdin and answers
// with the function name as the first of its (addr2line -f) output
// lines.
type BatchResolver struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
}

// NewBatchResolver starts the subprocess and returns a ready resolver.
func NewBatchResolver(toolPath, programPath string) (*BatchResolver, error) {
	cmd := exec.Command(toolPath, "-e", programPath, "-f")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("piping stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("piping stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", toolPath, err)
	}
	return &BatchResolver{cmd: cmd, stdin: stdin, stdout: bufio.NewScanner(stdout)}, nil
}

// Resolve writes one query line and reads back the function name,
// discarding the file:line companion line addr2line -f also emits.
func (r *BatchResolver) Resolve(address uint32) (string, error) {
	if _, err := fmt.Fprintf(r.stdin, "0x%x\n", address); err != nil {
		return "", fmt.Errorf("writing query: %w", err)
	}
	if !r.stdout.Scan() {
		return "", fmt.Errorf("no resolver output for address 0x%08X", address)
	}
	name, err := trimResolvedName(r.stdout.Text(), address)
	r.stdout.Scan() // drop the file:line line
	return name, err
}

// Close terminates the subprocess and waits for it to exit.
func (r *BatchResolver) Close() error {
	r.stdin.Close()
	return r.cmd.Wait()
}
