package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterUvarintRoundtrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<64 - 1}
	for _, n := range cases {
		w := newWriter()
		w.AppendUvarint(n)
		r := newReader(w.Bytes())
		got, err := r.ReadUvarint()
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, 0, r.Remaining())
	}
}

func TestWriterVarintRoundtrip(t *testing.T) {
	cases := []int64{0, 1, -1, 15, -16, 16, -17, 1 << 40, -(1 << 40), minInt64, maxInt64}
	for _, n := range cases {
		w := newWriter()
		w.AppendVarint(n)
		r := newReader(w.Bytes())
		got, err := r.ReadVarint()
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestWriterSmallMagnitudesFitOneByte(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 5, -5} {
		w := newWriter()
		w.AppendVarint(n)
		assert.Lenf(t, w.Bytes(), 1, "value %d should fit in a single byte", n)
	}
}

func TestWriterInitialCapacity(t *testing.T) {
	w := newWriter()
	assert.GreaterOrEqual(t, cap(w.buf), 64)
}

const (
	minInt64 = -1 << 63
	maxInt64 = 1<<63 - 1
)
