package msgpack

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes canonically encoded values to an underlying writer.
//
// Writes are buffered; call Flush to push them to the destination. The tag
// selection logic cannot fail. Failures of the destination writer are
// recorded once and reported by Flush and Err.
type Encoder struct {
	w       *bufio.Writer
	scratch [9]byte
	err     error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	if bw, ok := w.(*bufio.Writer); ok {
		return &Encoder{w: bw}
	}
	return &Encoder{w: bufio.NewWriter(w)}
}

// Bool encodes v as a single true/false tag.
func (e *Encoder) Bool(v bool) {
	if v {
		e.putByte(tagTrue)
		return
	}
	e.putByte(tagFalse)
}

// Int encodes a signed integer using the smallest covering tag.
func (e *Encoder) Int(v int64) {
	switch {
	case v >= negFixintMin && v <= posFixintMax:
		e.putByte(byte(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		e.putTagged(tagInt8, 1, uint64(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		e.putTagged(tagInt16, 2, uint64(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		e.putTagged(tagInt32, 4, uint64(v))
	default:
		e.putTagged(tagInt64, 8, uint64(v))
	}
}

// Uint encodes an unsigned integer using the smallest covering tag.
func (e *Encoder) Uint(v uint64) {
	switch {
	case v <= posFixintMax:
		e.putByte(byte(v))
	case v <= math.MaxUint8:
		e.putTagged(tagUint8, 1, v)
	case v <= math.MaxUint16:
		e.putTagged(tagUint16, 2, v)
	case v <= math.MaxUint32:
		e.putTagged(tagUint32, 4, v)
	default:
		e.putTagged(tagUint64, 8, v)
	}
}

// String encodes s as a length header followed by its raw bytes.
func (e *Encoder) String(s string) {
	e.StringLen(len(s))
	if len(s) == 0 || e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.setErr(err)
	}
}

// StringLen encodes only the header of a string of n bytes. The caller must
// follow it with exactly n bytes via Write.
func (e *Encoder) StringLen(n int) {
	switch {
	case n <= fixStrMax:
		e.putByte(fixStr + byte(n))
	case n <= math.MaxUint8:
		e.putTagged(tagStr8, 1, uint64(n))
	case n <= math.MaxUint16:
		e.putTagged(tagStr16, 2, uint64(n))
	default:
		e.putTagged(tagStr32, 4, uint64(n))
	}
}

// Array encodes the header of an array with n elements. The caller must
// encode exactly n values afterwards.
func (e *Encoder) Array(n int) {
	switch {
	case n <= fixArrayMax:
		e.putByte(fixArray + byte(n))
	case n <= math.MaxUint16:
		e.putTagged(tagArray16, 2, uint64(n))
	default:
		e.putTagged(tagArray32, 4, uint64(n))
	}
}

// StringArray encodes an array header followed by one string per element.
func (e *Encoder) StringArray(values []string) {
	e.Array(len(values))
	for _, v := range values {
		e.String(v)
	}
}

// Write copies raw bytes into the stream. It is used after StringLen to
// stream a payload the caller already holds.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.setErr(err)
	}
	return n, err
}

// Flush writes any buffered bytes to the destination.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		e.setErr(err)
	}
	return e.err
}

// Err returns the first write failure, if any.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) putByte(b byte) {
	if e.err != nil {
		return
	}
	if err := e.w.WriteByte(b); err != nil {
		e.setErr(err)
	}
}

// putTagged writes tag followed by the low width bytes of v, big-endian.
func (e *Encoder) putTagged(tag byte, width int, v uint64) {
	if e.err != nil {
		return
	}
	buf := e.scratch[:1+width]
	buf[0] = tag
	switch width {
	case 1:
		buf[1] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf[1:], uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf[1:], uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf[1:], v)
	}
	if _, err := e.w.Write(buf); err != nil {
		e.setErr(err)
	}
}

func (e *Encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}
