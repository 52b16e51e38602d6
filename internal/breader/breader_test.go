package breader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExactBounds(t *testing.T) {
	data := []byte("hello world")
	br := Open(bytes.NewReader(data), int64(len(data)))

	got, err := br.ReadExact(0, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = br.ReadExact(6, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = br.ReadExact(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadU16U32U64(t *testing.T) {
	data := []byte{0x34, 0x12, 0xAA, 0x55, 0x01, 0x00, 0x00, 0x00, 0, 0, 0, 0}
	br := Open(bytes.NewReader(data), int64(len(data)))

	u16, err := br.ReadU16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := br.ReadU32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x55AA1234), u32)

	u64, err := br.ReadU64(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000000155AA1234), u64)
}

func TestReadCStringClean(t *testing.T) {
	data := append([]byte("hello"), 0, 'x')
	br := Open(bytes.NewReader(data), int64(len(data)))

	s, pos, err := br.ReadCString(0, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, int64(6), pos)
}

func TestReadCStringTruncated(t *testing.T) {
	data := []byte("hello")
	br := Open(bytes.NewReader(data), int64(len(data)))

	_, _, err := br.ReadCString(0, 50, 0)
	assert.ErrorIs(t, err, ErrTruncatedString)
}

func TestReadCStringOverlong(t *testing.T) {
	data := append([]byte("abcdefghij"), 0)
	br := Open(bytes.NewReader(data), int64(len(data)))

	_, pos, err := br.ReadCString(0, 5, 20)
	var overlong ErrOverlongString
	require.ErrorAs(t, err, &overlong)
	assert.Equal(t, 5, overlong.Limit)
	assert.Equal(t, int64(11), pos) // resynced past the terminator at index 10
}

func TestReadCStringOverlongNoTerminatorInScanWindow(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, 100)
	br := Open(bytes.NewReader(data), int64(len(data)))

	_, _, err := br.ReadCString(0, 5, 10)
	var overlong ErrOverlongString
	require.ErrorAs(t, err, &overlong)
}
