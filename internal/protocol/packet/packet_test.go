package packet

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Writer must keep the io.ByteWriter method shape.
var _ io.ByteWriter = (*Writer)(nil)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(64)
	w.WriteByte(0x7F)
	w.WriteBool(true)
	w.WriteUint16(0xBEEF)
	w.WriteUint32(0xDEADBEEF)
	w.WriteInt32(-42)
	w.WriteUint64(0x1100001000000000)
	w.WriteString("de_dust2")
	w.WriteBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7F), b)

	v, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, v)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1100001000000000), u64)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "de_dust2", s)

	raw, err := r.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	assert.Equal(t, 0, r.Remaining())
}

func TestReaderUnderflow(t *testing.T) {
	r := NewReader([]byte{0x01})

	_, err := r.ReadUint32()
	assert.Error(t, err)

	// Underflow does not consume; the byte is still readable.
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	_, err = r.ReadByte()
	assert.Error(t, err)
}

func TestReadStringTruncatedBody(t *testing.T) {
	w := NewWriter(8)
	w.WriteUint16(10) // length prefix promises more than exists
	w.WriteBytes([]byte("abc"))

	r := NewReader(w.Bytes())
	_, err := r.ReadString()
	assert.Error(t, err)
}

func TestLittleEndianLayout(t *testing.T) {
	w := NewWriter(4)
	w.WriteUint32(0x04030201)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, w.Bytes())
}
