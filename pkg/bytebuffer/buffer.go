// Package bytebuffer implements a growable byte buffer with a single
// read/write cursor and a selectable byte order. It is the wire codec used to
// produce and consume ledger entry messages.
//
// A Buffer is not safe for concurrent use.
package bytebuffer

import (
	"encoding/binary"
	"io"
	"math"
)

// Order selects how multi-byte values are laid out in the buffer.
type Order int

const (
	// LittleEndian is the native mode: least significant byte first.
	LittleEndian Order = iota
	// BigEndian is the alternate mode: most significant byte first.
	BigEndian
)

func (o Order) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

const (
	defaultCapacity = 10 * 1024
	readFromChunk   = 8192
)

// Buffer is a byte region with a cursor. Its length is the size of the
// backing storage; writes past the end grow it to the exact size needed.
type Buffer struct {
	data     []byte
	position int
	order    Order
}

// NewDefault returns a zero-filled buffer of 10KiB.
func NewDefault() *Buffer {
	return New(defaultCapacity)
}

// New returns a zero-filled buffer whose length is capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return NewFromBytes(make([]byte, capacity))
}

// NewFromBytes wraps data without copying it.
func NewFromBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewFromReader drains r into a new buffer positioned at 0 with the given
// byte order. Closing r is left to the caller.
func NewFromReader(r io.Reader, order Order) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b := NewFromBytes(data)
	b.Reset(order)
	return b, nil
}

// Bytes returns the whole backing storage, regardless of the cursor.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the length of the backing storage.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Position returns the cursor.
func (b *Buffer) Position() int {
	return b.position
}

// SetPosition moves the cursor anywhere in [0, Len()].
func (b *Buffer) SetPosition(position int) error {
	if position < 0 || position > len(b.data) {
		return ErrOutOfRange
	}
	b.position = position
	return nil
}

// Available returns the number of bytes between the cursor and the end.
func (b *Buffer) Available() int {
	return len(b.data) - b.position
}

func (b *Buffer) Order() Order {
	return b.order
}

func (b *Buffer) SetOrder(order Order) {
	b.order = order
}

// Rewind moves the cursor back to 0.
func (b *Buffer) Rewind() {
	b.position = 0
}

// Reset rewinds the cursor and switches to the given byte order.
func (b *Buffer) Reset(order Order) {
	b.position = 0
	b.order = order
}

// SetLength resizes the backing storage keeping the overlapping prefix. New
// bytes are zero. The cursor is clamped to the new length.
func (b *Buffer) SetLength(length int) error {
	if length < 0 {
		return ErrOutOfRange
	}
	b.resize(length)
	return nil
}

// Truncate drops every byte from the cursor onward.
func (b *Buffer) Truncate() {
	b.resize(b.position)
}

// Close releases the backing storage.
func (b *Buffer) Close() error {
	b.data = nil
	b.position = 0
	return nil
}

// Skip advances the cursor by at most n bytes and returns how many bytes
// were actually skipped.
func (b *Buffer) Skip(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if avail := int64(b.Available()); n > avail {
		n = avail
	}
	b.position += int(n)
	return n
}

func (b *Buffer) resize(length int) {
	if length == len(b.data) {
		return
	}
	data := make([]byte, length)
	copy(data, b.data)
	b.data = data
	if b.position > length {
		b.position = length
	}
}

func (b *Buffer) byteOrder() binary.ByteOrder {
	if b.order == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// next returns the following n bytes and advances the cursor, or fails
// without moving it.
func (b *Buffer) next(n int) ([]byte, error) {
	if n < 0 || b.Available() < n {
		return nil, ErrOutOfRange
	}
	p := b.data[b.position : b.position+n]
	b.position += n
	return p, nil
}

// ReadByte implements io.ByteReader.
func (b *Buffer) ReadByte() (byte, error) {
	p, err := b.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (b *Buffer) ReadBool() (bool, error) {
	c, err := b.ReadByte()
	if err != nil {
		return false, err
	}
	return c != 0, nil
}

func (b *Buffer) ReadUint16() (uint16, error) {
	p, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return b.byteOrder().Uint16(p), nil
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *Buffer) ReadUint32() (uint32, error) {
	p, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return b.byteOrder().Uint32(p), nil
}

func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *Buffer) ReadUint64() (uint64, error) {
	p, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return b.byteOrder().Uint64(p), nil
}

func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

func (b *Buffer) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *Buffer) ReadFloat64() (float64, error) {
	v, err := b.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes returns a copy of the next n bytes.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	p, err := b.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

// ReadFull fills p entirely or fails without consuming anything.
func (b *Buffer) ReadFull(p []byte) error {
	src, err := b.next(len(p))
	if err != nil {
		return err
	}
	copy(p, src)
	return nil
}

// WriteTo implements io.WriterTo by draining every byte after the cursor.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data[b.position:])
	b.position += n
	return int64(n), err
}

// ensureCapacity grows the storage to exactly fit n more bytes at the cursor.
func (b *Buffer) ensureCapacity(n int) {
	if b.position+n > len(b.data) {
		b.resize(b.position + n)
	}
}

// put reserves n bytes at the cursor and advances past them.
func (b *Buffer) put(n int) []byte {
	b.ensureCapacity(n)
	p := b.data[b.position : b.position+n]
	b.position += n
	return p
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.put(1)[0] = c
	return nil
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	copy(b.put(len(p)), p)
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom by appending r's content at the cursor.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	chunk := make([]byte, readFromChunk)
	var total int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			//nolint
			b.Write(chunk[:n])
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteBool writes 0xFF for true and 0x00 for false.
func (b *Buffer) WriteBool(v bool) {
	var c byte
	if v {
		c = 0xff
	}
	b.put(1)[0] = c
}

func (b *Buffer) WriteUint16(v uint16) {
	b.byteOrder().PutUint16(b.put(2), v)
}

func (b *Buffer) WriteInt16(v int16) {
	b.WriteUint16(uint16(v))
}

func (b *Buffer) WriteUint32(v uint32) {
	b.byteOrder().PutUint32(b.put(4), v)
}

func (b *Buffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

func (b *Buffer) WriteUint64(v uint64) {
	b.byteOrder().PutUint64(b.put(8), v)
}

func (b *Buffer) WriteInt64(v int64) {
	b.WriteUint64(uint64(v))
}

func (b *Buffer) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

func (b *Buffer) WriteFloat64(v float64) {
	b.WriteUint64(math.Float64bits(v))
}
