package flux

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderTruncatedByte(t *testing.T) {
	r := newReader(nil)
	_, err := r.ReadByte()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, Truncated, de.Kind)
}

func TestReaderUvarintOverflowMissingTerminator(t *testing.T) {
	// 10 continuation bytes, none terminating: must fail Overflow, not Truncated.
	buf := make([]byte, 10)
	for i := range buf {
		buf[i] = 0xFF
	}
	r := newReader(buf)
	_, err := r.ReadUvarint()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, Overflow, de.Kind)
}

func TestReaderUvarintTruncatedMidVarint(t *testing.T) {
	// continuation bit set but no more bytes follow.
	r := newReader([]byte{0x80})
	_, err := r.ReadUvarint()
	require.Error(t, err)
	assert.True(t, errors.Is(err, Truncated))
}

func TestReaderReadRawDoesNotAliasInput(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	r := newReader(buf)
	out, err := r.ReadRaw(4)
	require.NoError(t, err)
	buf[0] = 0xFF
	assert.Equal(t, byte(1), out[0])
}

func TestReaderReadRawTruncated(t *testing.T) {
	r := newReader([]byte{1, 2})
	_, err := r.ReadRaw(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, Truncated))
}
