/*
Package codec writes and reads the protobuf wire format used by every
persisted model and message.

Models describe their fields by hand with a Writer when marshalling and
walk them with a Reader when unmarshalling. Only the varint (0) and length
delimited (2) wire types are produced; unknown fields of those types are
skipped when reading, so older readers accept newer data.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/loom/errors"
)

const (
	wireVarint = 0
	wireBytes  = 2
)

// Marshaler is implemented by nested messages.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Unmarshaler is implemented by nested messages.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Writer accumulates encoded fields. Zero values are omitted, as proto3
// does.
type Writer struct {
	buf []byte
	err error
}

func (w *Writer) key(field int, wire int) {
	w.buf = append(w.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wire))...)
}

// Uint64 writes a varint field.
func (w *Writer) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	w.key(field, wireVarint)
	w.buf = append(w.buf, proto.EncodeVarint(v)...)
}

// Int64 writes a varint field.
func (w *Writer) Int64(field int, v int64) {
	w.Uint64(field, uint64(v))
}

// Bool writes a varint field.
func (w *Writer) Bool(field int, v bool) {
	if v {
		w.Uint64(field, 1)
	}
}

// Bytes writes a length delimited field.
func (w *Writer) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	w.key(field, wireBytes)
	w.buf = append(w.buf, proto.EncodeVarint(uint64(len(b)))...)
	w.buf = append(w.buf, b...)
}

// Entry writes one element of a repeated length delimited field. Unlike
// Bytes it writes empty values, which keeps the element count.
func (w *Writer) Entry(field int, b []byte) {
	w.key(field, wireBytes)
	w.buf = append(w.buf, proto.EncodeVarint(uint64(len(b)))...)
	w.buf = append(w.buf, b...)
}

// String writes a length delimited field.
func (w *Writer) String(field int, s string) {
	w.Bytes(field, []byte(s))
}

// Message writes a nested message. Nil messages are omitted.
func (w *Writer) Message(field int, m Marshaler) {
	if m == nil || w.err != nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		w.err = err
		return
	}
	w.key(field, wireBytes)
	w.buf = append(w.buf, proto.EncodeVarint(uint64(len(raw)))...)
	w.buf = append(w.buf, raw...)
}

// Result returns the encoded message or the first error of a nested
// message.
func (w *Writer) Result() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Reader iterates over the fields of an encoded message.
type Reader struct {
	raw   []byte
	field int
	wire  int
	value uint64
	data  []byte
	err   error
}

// NewReader returns a reader positioned before the first field.
func NewReader(raw []byte) *Reader {
	return &Reader{raw: raw}
}

// Next advances to the next field. It returns false at the end of the
// input or on malformed data, see Err.
func (r *Reader) Next() bool {
	if r.err != nil || len(r.raw) == 0 {
		return false
	}
	key, n := proto.DecodeVarint(r.raw)
	if n == 0 {
		r.err = errors.Wrap(errors.ErrInput, "malformed field key")
		return false
	}
	r.raw = r.raw[n:]
	r.field = int(key >> 3)
	r.wire = int(key & 7)

	switch r.wire {
	case wireVarint:
		v, n := proto.DecodeVarint(r.raw)
		if n == 0 {
			r.err = errors.Wrapf(errors.ErrInput, "malformed varint of field %d", r.field)
			return false
		}
		r.value, r.data = v, nil
		r.raw = r.raw[n:]
	case wireBytes:
		size, n := proto.DecodeVarint(r.raw)
		if n == 0 || uint64(len(r.raw)-n) < size {
			r.err = errors.Wrapf(errors.ErrInput, "malformed length of field %d", r.field)
			return false
		}
		r.data, r.value = r.raw[n:n+int(size)], 0
		r.raw = r.raw[n+int(size):]
	default:
		r.err = errors.Wrapf(errors.ErrInput, "unsupported wire type %d of field %d", r.wire, r.field)
		return false
	}
	return true
}

// Field returns the number of the current field.
func (r *Reader) Field() int {
	return r.field
}

// Uint64 returns the current varint value.
func (r *Reader) Uint64() uint64 {
	r.expect(wireVarint)
	return r.value
}

// Int64 returns the current varint value.
func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

// Bool returns the current varint value as a boolean.
func (r *Reader) Bool() bool {
	return r.Uint64() != 0
}

// Bytes returns a copy of the current length delimited value.
func (r *Reader) Bytes() []byte {
	r.expect(wireBytes)
	if len(r.data) == 0 {
		return nil
	}
	b := make([]byte, len(r.data))
	copy(b, r.data)
	return b
}

// String returns the current length delimited value.
func (r *Reader) String() string {
	r.expect(wireBytes)
	return string(r.data)
}

// Message decodes the current length delimited value into m.
func (r *Reader) Message(m Unmarshaler) {
	r.expect(wireBytes)
	if r.err != nil {
		return
	}
	if err := m.Unmarshal(r.data); err != nil {
		r.err = errors.Wrapf(err, "field %d", r.field)
	}
}

func (r *Reader) expect(wire int) {
	if r.err == nil && r.wire != wire {
		r.err = errors.Wrapf(errors.ErrInput, "field %d: unexpected wire type %d", r.field, r.wire)
	}
}

// Err returns the first error found while reading.
func (r *Reader) Err() error {
	return r.err
}
