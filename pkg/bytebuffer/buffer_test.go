package bytebuffer_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/youweixue/RipplePower/pkg/bytebuffer"
)

var orders = []bytebuffer.Order{bytebuffer.LittleEndian, bytebuffer.BigEndian}

func TestPrimitivesRoundTrip(t *testing.T) {
	t.Parallel()

	for _, order := range orders {
		order := order
		t.Run(order.String(), func(t *testing.T) {
			t.Parallel()

			b := bytebuffer.New(0)
			b.SetOrder(order)

			require.NoError(t, b.WriteByte(0x7f))
			b.WriteBool(true)
			b.WriteBool(false)
			b.WriteInt16(math.MinInt16)
			b.WriteUint16(0xbeef)
			b.WriteInt32(-123456789)
			b.WriteUint32(0xdeadbeef)
			b.WriteInt64(math.MinInt64 + 42)
			b.WriteUint64(math.MaxUint64)
			b.WriteFloat32(float32(math.Pi))
			b.WriteFloat64(-math.E)
			b.WriteFloat64(math.Inf(1))

			require.Equal(t, 1+1+1+2+2+4+4+8+8+4+8+8, b.Len())
			require.Equal(t, b.Len(), b.Position())

			b.Rewind()

			c, err := b.ReadByte()
			require.NoError(t, err)
			require.Equal(t, byte(0x7f), c)

			v, err := b.ReadBool()
			require.NoError(t, err)
			require.True(t, v)

			v, err = b.ReadBool()
			require.NoError(t, err)
			require.False(t, v)

			i16, err := b.ReadInt16()
			require.NoError(t, err)
			require.Equal(t, int16(math.MinInt16), i16)

			u16, err := b.ReadUint16()
			require.NoError(t, err)
			require.Equal(t, uint16(0xbeef), u16)

			i32, err := b.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(-123456789), i32)

			u32, err := b.ReadUint32()
			require.NoError(t, err)
			require.Equal(t, uint32(0xdeadbeef), u32)

			i64, err := b.ReadInt64()
			require.NoError(t, err)
			require.Equal(t, int64(math.MinInt64+42), i64)

			u64, err := b.ReadUint64()
			require.NoError(t, err)
			require.Equal(t, uint64(math.MaxUint64), u64)

			f32, err := b.ReadFloat32()
			require.NoError(t, err)
			require.Equal(t, float32(math.Pi), f32)

			f64, err := b.ReadFloat64()
			require.NoError(t, err)
			require.Equal(t, -math.E, f64)

			f64, err = b.ReadFloat64()
			require.NoError(t, err)
			require.True(t, math.IsInf(f64, 1))

			require.Zero(t, b.Available())
		})
	}
}

func TestByteOrderLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		order    bytebuffer.Order
		write    func(b *bytebuffer.Buffer)
		expected []byte
	}{
		{
			name:     "int16_native",
			order:    bytebuffer.LittleEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteInt16(0x0102) },
			expected: []byte{0x02, 0x01},
		},
		{
			name:     "int16_alternate",
			order:    bytebuffer.BigEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteInt16(0x0102) },
			expected: []byte{0x01, 0x02},
		},
		{
			name:     "int32_native",
			order:    bytebuffer.LittleEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteInt32(0x01020304) },
			expected: []byte{0x04, 0x03, 0x02, 0x01},
		},
		{
			name:     "int64_alternate",
			order:    bytebuffer.BigEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteInt64(0x0102030405060708) },
			expected: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		},
		{
			name:     "float32_alternate",
			order:    bytebuffer.BigEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteFloat32(1) },
			expected: []byte{0x3f, 0x80, 0x00, 0x00},
		},
		{
			name:     "bool_true",
			order:    bytebuffer.LittleEndian,
			write:    func(b *bytebuffer.Buffer) { b.WriteBool(true) },
			expected: []byte{0xff},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := bytebuffer.New(0)
			b.SetOrder(tt.order)
			tt.write(b)
			require.Equal(t, tt.expected, b.Bytes())
		})
	}
}

func TestDefaultOrderIsNative(t *testing.T) {
	t.Parallel()

	b := bytebuffer.NewDefault()
	require.Equal(t, bytebuffer.LittleEndian, b.Order())
	require.Equal(t, 10*1024, b.Len())
	require.Zero(t, b.Position())
}

func TestReadOutOfRange(t *testing.T) {
	t.Parallel()

	reads := map[string]func(b *bytebuffer.Buffer) error{
		"byte":    func(b *bytebuffer.Buffer) error { _, err := b.ReadByte(); return err },
		"bool":    func(b *bytebuffer.Buffer) error { _, err := b.ReadBool(); return err },
		"int16":   func(b *bytebuffer.Buffer) error { _, err := b.ReadInt16(); return err },
		"int32":   func(b *bytebuffer.Buffer) error { _, err := b.ReadInt32(); return err },
		"int64":   func(b *bytebuffer.Buffer) error { _, err := b.ReadInt64(); return err },
		"float32": func(b *bytebuffer.Buffer) error { _, err := b.ReadFloat32(); return err },
		"float64": func(b *bytebuffer.Buffer) error { _, err := b.ReadFloat64(); return err },
		"utf":     func(b *bytebuffer.Buffer) error { _, err := b.ReadUTF(); return err },
		"bytes":   func(b *bytebuffer.Buffer) error { _, err := b.ReadBytes(5); return err },
		"full":    func(b *bytebuffer.Buffer) error { return b.ReadFull(make([]byte, 2)) },
	}

	for name, read := range reads {
		read := read
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := bytebuffer.NewFromBytes([]byte{0, 0, 0, 0, 0, 0, 0, 0})
			start := 7
			if name == "byte" || name == "bool" {
				start = 8
			}
			require.NoError(t, b.SetPosition(start))

			err := read(b)
			require.ErrorIs(t, err, bytebuffer.ErrOutOfRange)
			require.Equal(t, start, b.Position())
		})
	}
}

func TestReadUTFLengthExceedsAvailable(t *testing.T) {
	t.Parallel()

	b := bytebuffer.New(0)
	b.SetOrder(bytebuffer.BigEndian)
	b.WriteUint16(10)
	//nolint
	b.Write([]byte("abc"))
	b.Rewind()

	_, err := b.ReadUTF()
	require.ErrorIs(t, err, bytebuffer.ErrOutOfRange)
	require.Zero(t, b.Position())
}

func TestGrowthPreservesWrittenBytes(t *testing.T) {
	t.Parallel()

	b := bytebuffer.New(4)
	b.WriteInt32(0x11223344)
	require.Equal(t, 4, b.Len())
	written := append([]byte(nil), b.Bytes()...)

	b.WriteInt64(0x5566778899aabbcc)
	require.Equal(t, 12, b.Len())
	require.Equal(t, 12, b.Position())
	require.Equal(t, written, b.Bytes()[:4])

	// Overwriting in the middle must not grow the buffer.
	require.NoError(t, b.SetPosition(2))
	b.WriteInt16(0)
	require.Equal(t, 12, b.Len())
	require.Equal(t, 4, b.Position())
	require.Equal(t, written[:2], b.Bytes()[:2])
}

func TestSetLengthAndTruncate(t *testing.T) {
	t.Parallel()

	b := bytebuffer.NewFromBytes([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, b.SetPosition(5))

	require.NoError(t, b.SetLength(8))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 0, 0}, b.Bytes())
	require.Equal(t, 5, b.Position())

	require.NoError(t, b.SetLength(3))
	require.Equal(t, []byte{1, 2, 3}, b.Bytes())
	require.Equal(t, 3, b.Position())

	require.ErrorIs(t, b.SetLength(-1), bytebuffer.ErrOutOfRange)

	require.NoError(t, b.SetPosition(1))
	b.Truncate()
	require.Equal(t, []byte{1}, b.Bytes())
	require.Equal(t, 1, b.Position())
	require.Zero(t, b.Available())
}

func TestSetPosition(t *testing.T) {
	t.Parallel()

	b := bytebuffer.New(4)
	require.NoError(t, b.SetPosition(4))
	require.ErrorIs(t, b.SetPosition(5), bytebuffer.ErrOutOfRange)
	require.ErrorIs(t, b.SetPosition(-1), bytebuffer.ErrOutOfRange)
	require.Equal(t, 4, b.Position())
}

func TestSkip(t *testing.T) {
	t.Parallel()

	b := bytebuffer.New(10)
	require.Equal(t, int64(0), b.Skip(-3))
	require.Equal(t, int64(4), b.Skip(4))
	require.Equal(t, 4, b.Position())
	require.Equal(t, int64(6), b.Skip(100))
	require.Equal(t, 10, b.Position())
	require.Equal(t, int64(0), b.Skip(1))
}

func TestStreams(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat("ledger", 3000)

	b, err := bytebuffer.NewFromReader(strings.NewReader(payload), bytebuffer.BigEndian)
	require.NoError(t, err)
	require.Equal(t, bytebuffer.BigEndian, b.Order())
	require.Equal(t, len(payload), b.Len())
	require.Zero(t, b.Position())

	require.Equal(t, int64(6), b.Skip(6))
	out := &bytes.Buffer{}
	n, err := b.WriteTo(out)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)-6), n)
	require.Equal(t, payload[6:], out.String())
	require.Zero(t, b.Available())

	appended := bytebuffer.New(0)
	n, err = appended.ReadFrom(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), n)
	require.Equal(t, payload, string(appended.Bytes()))
}

func TestReadBytesCopies(t *testing.T) {
	t.Parallel()

	b := bytebuffer.NewFromBytes([]byte{9, 8, 7})
	p, err := b.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8}, p)

	p[0] = 0
	require.Equal(t, byte(9), b.Bytes()[0])
}

func TestClose(t *testing.T) {
	t.Parallel()

	b := bytebuffer.NewFromBytes([]byte{1, 2, 3})
	require.NoError(t, b.Close())
	require.Zero(t, b.Len())
	require.Zero(t, b.Position())

	_, err := b.ReadByte()
	require.ErrorIs(t, err, bytebuffer.ErrOutOfRange)
}
