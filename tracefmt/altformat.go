// altformat.go - fixed-width alternate wire formats (§6): 20-byte and
// 12-byte-compact. The analyzer only accepts the canonical variable-length
// format (record.go/decode.go); these exist because implementers must pick
// one variant per build, and a build targeting the 20- or 12-byte layout
// still needs a correct encoder/decoder pair to test against.

package tracefmt

import (
	"encoding/binary"
	"fmt"
	"io"
)

// entryFlagBit marks a function-entry record in the packed flag/tid or
// address word of the alternate formats.
const entryFlagBit = 1 << 31

// threadIDMask is the 9-bit thread id field shared by both alt layouts.
const threadIDMask = 0x1FF

// offsetShift divides the raw byte offset for the 12-byte layout's 22-bit
// compressed address field (addresses are word-aligned on this target).
const offsetShift = 2

// offsetMask is the 22-bit field width for the 12-byte layout's compressed
// address offset.
const offsetMask = (1 << 22) - 1

// AltRecord is one decoded fixed-width alternate-format event.
type AltRecord struct {
	Entry          bool
	ThreadID       uint16
	Address        uint32
	DeltaTimeNanos uint32
	DeltaEvt0      uint32
	DeltaEvt1      uint32
}

func packFlagTid(entry bool, tid uint16) uint32 {
	v := uint32(tid) & threadIDMask
	if entry {
		v |= entryFlagBit
	}
	return v
}

func unpackFlagTid(v uint32) (entry bool, tid uint16) {
	return v&entryFlagBit != 0, uint16(v & threadIDMask)
}

// EncodeAlt20 appends a 20-byte fixed-width record to dst:
// flag_tid:u32, address:u32 (full), delta_time:u32, delta_evt0:u32, delta_evt1:u32.
func EncodeAlt20(dst []byte, rec AltRecord) []byte {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], packFlagTid(rec.Entry, rec.ThreadID))
	binary.LittleEndian.PutUint32(buf[4:8], rec.Address)
	binary.LittleEndian.PutUint32(buf[8:12], rec.DeltaTimeNanos)
	binary.LittleEndian.PutUint32(buf[12:16], rec.DeltaEvt0)
	binary.LittleEndian.PutUint32(buf[16:20], rec.DeltaEvt1)
	return append(dst, buf[:]...)
}

// DecodeAlt20 reads one 20-byte fixed-width record from r.
func DecodeAlt20(r io.Reader) (AltRecord, error) {
	var buf [20]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return AltRecord{}, io.EOF
		}
		return AltRecord{}, fmt.Errorf("tracefmt: reading 20-byte record: %w", ErrTruncated)
	}
	entry, tid := unpackFlagTid(binary.LittleEndian.Uint32(buf[0:4]))
	return AltRecord{
		Entry:          entry,
		ThreadID:       tid,
		Address:        binary.LittleEndian.Uint32(buf[4:8]),
		DeltaTimeNanos: binary.LittleEndian.Uint32(buf[8:12]),
		DeltaEvt0:      binary.LittleEndian.Uint32(buf[12:16]),
		DeltaEvt1:      binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}

func clamp16(v uint32) uint32 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return v
}

// EncodeAlt12 appends a 12-byte compact record to dst. The address word
// packs [entry:1][tid:9][offset:22] where offset = (address-BaseAddress)>>2;
// both event deltas are clamped to 16 bits.
func EncodeAlt12(dst []byte, rec AltRecord) []byte {
	offset := ((rec.Address - BaseAddress) >> offsetShift) & offsetMask
	addrWord := offset | (uint32(rec.ThreadID)&threadIDMask)<<22
	if rec.Entry {
		addrWord |= entryFlagBit
	}

	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], addrWord)
	binary.LittleEndian.PutUint32(buf[4:8], rec.DeltaTimeNanos)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(clamp16(rec.DeltaEvt0)))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(clamp16(rec.DeltaEvt1)))
	return append(dst, buf[:]...)
}

// DecodeAlt12 reads one 12-byte compact record from r, reconstructing the
// full address via BaseAddress and the stored word offset.
func DecodeAlt12(r io.Reader) (AltRecord, error) {
	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			return AltRecord{}, io.EOF
		}
		return AltRecord{}, fmt.Errorf("tracefmt: reading 12-byte record: %w", ErrTruncated)
	}
	addrWord := binary.LittleEndian.Uint32(buf[0:4])
	entry := addrWord&entryFlagBit != 0
	tid := uint16((addrWord >> 22) & threadIDMask)
	offset := addrWord & offsetMask
	return AltRecord{
		Entry:          entry,
		ThreadID:       tid,
		Address:        BaseAddress + offset<<offsetShift,
		DeltaTimeNanos: binary.LittleEndian.Uint32(buf[4:8]),
		DeltaEvt0:      uint32(binary.LittleEndian.Uint16(buf[8:10])),
		DeltaEvt1:      uint32(binary.LittleEndian.Uint16(buf[10:12])),
	}, nil
}
