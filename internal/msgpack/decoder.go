package msgpack

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Error messages recorded by the Decoder.
const (
	msgEOFType   = "unexpected EOF while reading type"
	msgEOF       = "unexpected EOF while reading"
	msgBadBool   = "unexpected type while reading bool"
	msgBadInt    = "unexpected type while reading int"
	msgBadUint   = "unexpected type while reading uint"
	msgBadString = "unexpected type while reading string"
	msgBadArray  = "unexpected type while reading array"
	msgBadSkip   = "unexpected type while skipping value"
	msgIntRange  = "value out of range while reading int"
	msgUintRange = "value out of range while reading uint"
)

// directReadLimit bounds the string length allocated up front. Longer
// declared lengths are read incrementally so a corrupt header cannot force a
// huge allocation before the payload actually arrives.
const directReadLimit = 64 << 10

// ErrDecode is wrapped by the error returned from Decoder.Error.
var ErrDecode = errors.New("msgpack decode")

// Decoder reads values written by Encoder, or by any MessagePack encoder that
// restricts itself to the supported kinds.
//
// The first error is kept for the lifetime of the Decoder. Later failures
// never replace it.
type Decoder struct {
	r       *bufio.Reader
	scratch [8]byte
	failed  bool
	eof     bool
	message string
	cause   error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	if br, ok := r.(*bufio.Reader); ok {
		return &Decoder{r: br}
	}
	return &Decoder{r: bufio.NewReader(r)}
}

// Type consumes one tag byte. When the stream is exhausted it records an
// error and returns the end-of-stream sentinel tag.
func (d *Decoder) Type() byte {
	b, err := d.r.ReadByte()
	if err != nil {
		d.readFailed(msgEOFType, err)
		return eofTag
	}
	return b
}

// Bool decodes a boolean. Any tag other than true/false is an error.
func (d *Decoder) Bool() bool {
	switch d.Type() {
	case tagTrue:
		return true
	case tagFalse:
		return false
	default:
		d.setErr(msgBadBool, nil)
		return false
	}
}

// Int decodes a signed integer from any of the fixint, intN or uintN tags.
// A uint64 payload above math.MaxInt64 is an error.
//
// When the payload is cut short the error is recorded and the value built
// from the bytes that did arrive is returned; it must not be trusted.
func (d *Decoder) Int() int64 {
	tag := d.Type()
	switch {
	case tag <= posFixintMax:
		return int64(tag)
	case tag >= negFixint:
		return int64(int8(tag))
	case tag == tagInt8:
		return int64(int8(d.payload(1)))
	case tag == tagInt16:
		return int64(int16(d.payload(2)))
	case tag == tagInt32:
		return int64(int32(d.payload(4)))
	case tag == tagInt64:
		return int64(d.payload(8))
	case tag >= tagUint8 && tag <= tagUint64:
		v := d.payload(1 << (tag - tagUint8))
		if v > math.MaxInt64 {
			d.setErr(msgIntRange, nil)
			return 0
		}
		return int64(v)
	default:
		d.setErr(msgBadInt, nil)
		return 0
	}
}

// Uint decodes an unsigned integer from the positive fixint or uintN tags,
// or from a signed tag carrying a non-negative value. Truncated payloads
// behave as described on Int.
func (d *Decoder) Uint() uint64 {
	tag := d.Type()
	switch {
	case tag <= posFixintMax:
		return uint64(tag)
	case tag == tagUint8:
		return d.payload(1)
	case tag == tagUint16:
		return d.payload(2)
	case tag == tagUint32:
		return d.payload(4)
	case tag == tagUint64:
		return d.payload(8)
	case tag >= negFixint:
		d.setErr(msgUintRange, nil)
		return 0
	case tag >= tagInt8 && tag <= tagInt64:
		width := 1 << (tag - tagInt8)
		shift := 64 - 8*width
		v := int64(d.payload(width)<<shift) >> shift
		if v < 0 {
			d.setErr(msgUintRange, nil)
			return 0
		}
		return uint64(v)
	default:
		d.setErr(msgBadUint, nil)
		return 0
	}
}

// String decodes a string into out. If the length or payload is truncated
// out is set to "". On an unexpected tag out is left untouched.
func (d *Decoder) String(out *string) {
	n, ok := d.stringLen(d.Type())
	if !ok {
		d.setErr(msgBadString, nil)
		return
	}
	if d.eof {
		*out = ""
		return
	}
	s, err := d.readString(n)
	if err != nil {
		d.readFailed(msgEOF, err)
		*out = ""
		return
	}
	*out = s
}

// Array decodes an array header and returns its element count. The caller
// is expected to decode that many values next; nothing checks that it does.
func (d *Decoder) Array() int {
	n, ok := d.arrayLen(d.Type())
	if !ok {
		d.setErr(msgBadArray, nil)
		return 0
	}
	return n
}

// Skip consumes one value of any supported kind, descending into arrays.
func (d *Decoder) Skip() {
	tag := d.Type()
	if d.eof {
		return
	}
	switch {
	case tag <= posFixintMax, tag >= negFixint, tag == tagTrue, tag == tagFalse:
	case tag >= tagUint8 && tag <= tagUint64:
		d.payload(1 << (tag - tagUint8))
	case tag >= tagInt8 && tag <= tagInt64:
		d.payload(1 << (tag - tagInt8))
	default:
		if n, ok := d.stringLen(tag); ok {
			if _, err := io.CopyN(io.Discard, d.r, int64(n)); err != nil {
				d.readFailed(msgEOF, err)
			}
			return
		}
		if n, ok := d.arrayLen(tag); ok {
			for i := 0; i < n && !d.failed; i++ {
				d.Skip()
			}
			return
		}
		d.setErr(msgBadSkip, nil)
	}
}

// More reports whether another byte can be read. It blocks until a byte is
// available or the stream ends, and does not consume anything. A clean end
// of stream is not an error; any other read failure is recorded.
func (d *Decoder) More() bool {
	_, err := d.r.Peek(1)
	if err != nil && !errors.Is(err, io.EOF) {
		d.readFailed(msgEOFType, err)
	}
	return err == nil
}

// Err reports whether any error has occurred. When one has, its message is
// written to out.
func (d *Decoder) Err(out *string) bool {
	if d.failed && out != nil {
		*out = d.message
	}
	return d.failed
}

// Error returns the recorded error, or nil when decoding has been clean.
// The result wraps ErrDecode and, for read failures, the reader's error.
func (d *Decoder) Error() error {
	if !d.failed {
		return nil
	}
	if d.cause != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, d.message, d.cause)
	}
	return fmt.Errorf("%w: %s", ErrDecode, d.message)
}

func (d *Decoder) stringLen(tag byte) (int, bool) {
	switch {
	case tag >= fixStr && tag <= fixStr+fixStrMax:
		return int(tag - fixStr), true
	case tag == tagStr8:
		return int(d.payload(1)), true
	case tag == tagStr16:
		return int(d.payload(2)), true
	case tag == tagStr32:
		return int(d.payload(4)), true
	default:
		return 0, false
	}
}

func (d *Decoder) arrayLen(tag byte) (int, bool) {
	switch {
	case tag >= fixArray && tag <= fixArray+fixArrayMax:
		return int(tag - fixArray), true
	case tag == tagArray16:
		return int(d.payload(2)), true
	case tag == tagArray32:
		return int(d.payload(4)), true
	default:
		return 0, false
	}
}

// payload reads a width-byte big-endian integer. Missing trailing bytes
// count as zero and record an EOF error.
func (d *Decoder) payload(width int) uint64 {
	buf := d.scratch[:width]
	n, err := io.ReadFull(d.r, buf)
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(buf[i]) << (8 * (width - 1 - i))
	}
	if err != nil {
		d.readFailed(msgEOF, err)
	}
	return v
}

func (d *Decoder) readString(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	if n <= directReadLimit {
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	}
	var b bytes.Buffer
	if _, err := io.CopyN(&b, d.r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return b.String(), nil
}

// readFailed records a failed read. Running out of input marks the stream
// as exhausted; subsequent reads then short-circuit where they can.
func (d *Decoder) readFailed(message string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		d.eof = true
	} else {
		message = strings.Replace(message, "unexpected EOF", "read error", 1)
	}
	d.setErr(message, err)
}

func (d *Decoder) setErr(message string, cause error) {
	if d.failed {
		return
	}
	d.failed = true
	d.message = message
	d.cause = cause
}
