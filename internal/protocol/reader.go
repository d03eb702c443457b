package protocol

import (
	"errors"
	"fmt"
	"io"

	"buildstatus/internal/msgpack"
)

var (
	// ErrBadHeader reports a stream that does not open with Header.
	ErrBadHeader = errors.New("protocol: bad stream header")
	// ErrMalformed reports a message whose shape does not match its kind.
	ErrMalformed = errors.New("protocol: malformed message")
)

// maxPrealloc caps the capacity reserved for decoded string lists before
// their elements have actually been read.
const maxPrealloc = 1024

// DecodeError describes a message that could not be decoded. After one is
// returned the Reader is unusable.
type DecodeError struct {
	Kind   Kind
	Header bool
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Header {
		return fmt.Sprintf("decode stream header: %v", e.Err)
	}
	return fmt.Sprintf("decode %s message: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Reader decodes a status stream.
type Reader struct {
	dec *msgpack.Decoder
	err error
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(r)}
}

// ReadHeader consumes the stream magic and checks it.
func (r *Reader) ReadHeader() error {
	if r.err != nil {
		return r.err
	}
	magic := r.dec.Uint()
	if err := r.dec.Error(); err != nil {
		r.err = &DecodeError{Header: true, Err: err}
		return r.err
	}
	if magic != Header {
		r.err = fmt.Errorf("%w: got %#x, want %#x", ErrBadHeader, magic, Header)
		return r.err
	}
	return nil
}

// Next decodes the following message. It returns io.EOF when the stream
// ends cleanly on a message boundary; a stream cut inside a message yields
// a *DecodeError.
func (r *Reader) Next() (Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.dec.More() {
		if err := r.dec.Error(); err != nil {
			return nil, r.fail(Kind(0), err)
		}
		r.err = io.EOF
		return nil, r.err
	}

	n := r.dec.Array()
	if n < 1 {
		if err := r.dec.Error(); err != nil {
			return nil, r.fail(Kind(0), err)
		}
		return nil, r.fail(Kind(0), fmt.Errorf("%w: empty message", ErrMalformed))
	}
	kind := Kind(r.dec.Uint())
	if err := r.dec.Error(); err != nil {
		return nil, r.fail(kind, err)
	}

	want := fieldCount(kind)
	if n < want {
		return nil, r.fail(kind, fmt.Errorf("%w: %d fields, want at least %d", ErrMalformed, n, want))
	}

	msg := r.decodeBody(kind, n)
	for i := want; i < n && !r.dec.Err(nil); i++ {
		r.dec.Skip()
	}
	if err := r.dec.Error(); err != nil {
		return nil, r.fail(kind, err)
	}
	return msg, nil
}

func (r *Reader) decodeBody(kind Kind, n int) Message {
	d := r.dec
	switch kind {
	case KindTotalEdges:
		return TotalEdges{Total: d.Uint()}
	case KindBuildStarted:
		m := BuildStarted{Parallelism: d.Uint()}
		m.Verbose = d.Bool()
		return m
	case KindBuildFinished:
		return BuildFinished{}
	case KindEdgeStarted:
		var m EdgeStarted
		m.ID = d.Uint()
		m.StartMillis = d.Uint()
		m.Inputs = r.strings()
		m.Outputs = r.strings()
		d.String(&m.Description)
		d.String(&m.Command)
		m.UseConsole = d.Bool()
		return m
	case KindEdgeFinished:
		var m EdgeFinished
		m.ID = d.Uint()
		m.EndMillis = d.Uint()
		m.ExitStatus = d.Int()
		d.String(&m.Output)
		return m
	case KindInfo, KindWarning, KindError:
		m := Log{Level: kind}
		d.String(&m.Text)
		return m
	default:
		return Unknown{Type: kind, Fields: n - 1}
	}
}

func (r *Reader) strings() []string {
	n := r.dec.Array()
	if n == 0 {
		return nil
	}
	out := make([]string, 0, min(n, maxPrealloc))
	for i := 0; i < n && !r.dec.Err(nil); i++ {
		var s string
		r.dec.String(&s)
		out = append(out, s)
	}
	return out
}

func (r *Reader) fail(kind Kind, err error) error {
	r.err = &DecodeError{Kind: kind, Err: err}
	return r.err
}
