package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlwaysFails(t *testing.T) {
	data := []byte("arbitrary opaque bytes")
	_, err := Decoder{}.Parse(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestExtractSelfReadsRawRange(t *testing.T) {
	data := []byte("0123456789ABCDEF")
	got, err := Decoder{}.ExtractSelf(bytes.NewReader(data), int64(len(data)), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "4567", string(got))
}

func TestExtractSelfShortRead(t *testing.T) {
	data := []byte("0123456789")
	got, err := Decoder{}.ExtractSelf(bytes.NewReader(data), int64(len(data)), 8, 100)
	require.NoError(t, err)
	assert.Equal(t, "89", string(got))
}
