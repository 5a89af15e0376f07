package touch

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// Event types and codes from linux/input-event-codes.h.
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvAbs = 0x03

	SynReport   = 0
	SynMTReport = 2
	SynDropped  = 3

	BtnTouch = 0x14a

	AbsX            = 0x00
	AbsY            = 0x01
	AbsMTTouchMajor = 0x30
	AbsMTPositionX  = 0x35
	AbsMTPositionY  = 0x36
	AbsMTPressure   = 0x3a
)

// Event is one struct input_event.
type Event struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}

// Format is the size in bytes of one record. The timeval header is two
// longs, so the record is 16 bytes on 32-bit kernels and 24 on 64-bit.
type Format int

const (
	Format16 Format = 16
	Format24 Format = 24
)

// NativeFormat returns the record size for the running architecture.
func NativeFormat() Format {
	if strconv.IntSize == 64 {
		return Format24
	}
	return Format16
}

// ParseFormat accepts "16" or "24".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "16":
		return Format16, nil
	case "24":
		return Format24, nil
	}
	return 0, fmt.Errorf("unknown input_event record size %q", s)
}

// Size returns the record size in bytes.
func (f Format) Size() int {
	return int(f)
}

// ReadEvent reads one little-endian record. buf must hold at least f.Size() bytes.
func ReadEvent(r io.Reader, f Format, buf []byte) (Event, error) {
	b := buf[:f.Size()]
	if _, err := io.ReadFull(r, b); err != nil {
		return Event{}, err
	}
	var e Event
	le := binary.LittleEndian
	if f == Format24 {
		e.Sec = int64(le.Uint64(b[0:]))
		e.Usec = int64(le.Uint64(b[8:]))
		b = b[16:]
	} else {
		e.Sec = int64(int32(le.Uint32(b[0:])))
		e.Usec = int64(int32(le.Uint32(b[4:])))
		b = b[8:]
	}
	e.Type = le.Uint16(b[0:])
	e.Code = le.Uint16(b[2:])
	e.Value = int32(le.Uint32(b[4:]))
	return e, nil
}

// AppendEvent encodes e in format f and appends it to dst.
func AppendEvent(dst []byte, f Format, e Event) []byte {
	le := binary.LittleEndian
	if f == Format24 {
		dst = le.AppendUint64(dst, uint64(e.Sec))
		dst = le.AppendUint64(dst, uint64(e.Usec))
	} else {
		dst = le.AppendUint32(dst, uint32(e.Sec))
		dst = le.AppendUint32(dst, uint32(e.Usec))
	}
	dst = le.AppendUint16(dst, e.Type)
	dst = le.AppendUint16(dst, e.Code)
	return le.AppendUint32(dst, uint32(e.Value))
}
