// decoder.go - A1: the off-target side of the trace codec. Wraps
// tracefmt.ReadRecord with the running delta-decoding reference so
// callers see absolute cumulative cycle values, and transparently
// gunzips a compressed trace file the way the teacher's own VGM/VGZ
// reader autodetects compression on a chiptune capture.

package analyzer

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/tracecore/dcprof/tracefmt"
)

// Event is one decoded trace record with its cumulative cycle value
// already reconstructed.
type Event struct {
	Type    tracefmt.EventType
	Address uint32
	Cycle   uint64
}

// Decoder reads a canonical trace stream event by event.
type Decoder struct {
	r         *bufio.Reader
	reference uint64
}

// NewDecoder wraps r. If the stream begins with the gzip magic bytes
// it is transparently decompressed first.
func NewDecoder(r io.Reader) (*Decoder, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peeking trace header: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip trace: %w", err)
		}
		return &Decoder{r: bufio.NewReader(gz)}, nil
	}
	return &Decoder{r: br}, nil
}

// Next returns the next event. It returns io.EOF, unwrapped, once the
// stream is cleanly exhausted between records; any other error is a
// framing error the caller should treat as terminal for this trace.
func (d *Decoder) Next() (Event, error) {
	rec, err := tracefmt.ReadRecord(d.r)
	if err != nil {
		return Event{}, err
	}
	d.reference += rec.Delta
	return Event{Type: rec.Type, Address: rec.Address, Cycle: d.reference}, nil
}
