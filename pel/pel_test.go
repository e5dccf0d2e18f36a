package pel_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/bodgit/pelprep/pel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	B = pel.Black
	W = pel.White
)

// Arrow with an L at the bottom.
var arrowL = [][]uint32{
	{B, B, W, B, B},
	{B, W, W, W, B},
	{W, W, W, W, W},
	{B, B, W, B, B},
	{B, B, W, B, B},
	{B, B, W, B, B},
	{B, B, W, B, B},
	{B, B, W, W, W},
}

// Red border around a green box with a blue interior.
var box = [][]uint32{
	{pel.Red, pel.Red, pel.Red, pel.Red, pel.Red},
	{pel.Red, pel.Green, pel.Green, pel.Green, pel.Red},
	{pel.Red, pel.Green, pel.Blue, pel.Green, pel.Red},
	{pel.Red, pel.Green, pel.Blue, pel.Green, pel.Red},
	{pel.Red, pel.Green, pel.Blue, pel.Green, pel.Red},
	{pel.Red, pel.Green, pel.Green, pel.Green, pel.Red},
	{pel.Red, pel.Red, pel.Red, pel.Red, pel.Red},
}

func mustNew(t *testing.T, grid [][]uint32) *pel.Matrix {
	t.Helper()
	m, err := pel.New(grid)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	m := mustNew(t, arrowL)
	assert.Equal(t, 5, m.Width())
	assert.Equal(t, 8, m.Height())

	v, err := m.At(2, 0)
	require.NoError(t, err)
	assert.Equal(t, W, v)

	v, err = m.At(4, 7)
	require.NoError(t, err)
	assert.Equal(t, W, v)
}

func TestNewCopiesGrid(t *testing.T) {
	grid := [][]uint32{{1, 2}, {3, 4}}
	m := mustNew(t, grid)
	grid[0][0] = 99

	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	pix := m.Pixels()
	pix[1] = 99
	v, err = m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v)
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		grid [][]uint32
		err  error
	}{
		{"ragged", [][]uint32{{1, 2, 3}, {4, 5}}, pel.ErrDimension},
		{"empty", nil, pel.ErrInvalidDimension},
		{"empty row", [][]uint32{{}}, pel.ErrInvalidDimension},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pel.New(tc.grid)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNewUniform(t *testing.T) {
	m, err := pel.NewUniform(3, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 7, 7, 7, 7, 7}, m.Pixels())

	_, err = pel.NewUniform(0, 2, 7)
	require.ErrorIs(t, err, pel.ErrInvalidDimension)
}

func TestCheckDimensions(t *testing.T) {
	require.NoError(t, pel.CheckDimensions(100, 150))
	require.NoError(t, pel.CheckDimensions(pel.MaxPixels, 1))

	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 1},
		{"negative height", 1, -1},
		{"too many pixels", pel.MaxPixels, 2},
		{"product overflows", 1 << 20, 1 << 20},
		{"max int", math.MaxInt, math.MaxInt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, pel.CheckDimensions(tc.width, tc.height), pel.ErrInvalidDimension)

			m, err := pel.NewUniform(tc.width, tc.height, 7)
			require.ErrorIs(t, err, pel.ErrInvalidDimension)
			assert.Nil(t, m)
		})
	}
}

func TestFromBytes(t *testing.T) {
	m, err := pel.FromBytes([]byte{1, 2, 3, 4, 5, 6, 7}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, m.Pixels())

	v, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), v)
}

func TestFromBytesTruncated(t *testing.T) {
	m, err := pel.FromBytes([]byte{9, 8, 7}, 3, 2)
	require.ErrorIs(t, err, pel.ErrTruncatedInput)
	require.NotNil(t, m)
	assert.Equal(t, []uint32{9, 8, 7, 0, 0, 0}, m.Pixels())
}

func TestAtOutOfBounds(t *testing.T) {
	m := mustNew(t, arrowL)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 8}} {
		_, err := m.At(p[0], p[1])
		require.ErrorIs(t, err, pel.ErrOutOfBounds)

		_, err = m.WithPixel(p[0], p[1], W)
		require.ErrorIs(t, err, pel.ErrOutOfBounds)
	}
}

func TestWithPixel(t *testing.T) {
	m := mustNew(t, arrowL)
	n, err := m.WithPixel(0, 0, pel.Red)
	require.NoError(t, err)

	v, err := n.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, pel.Red, v)

	v, err = m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, B, v, "source must be unchanged")
}

func TestEqual(t *testing.T) {
	a := mustNew(t, arrowL)
	b := mustNew(t, arrowL)
	assert.True(t, a.Equal(b))

	c, err := b.WithPixel(1, 1, B)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	d := mustNew(t, box)
	assert.False(t, a.Equal(d))
}

func TestDump(t *testing.T) {
	m := mustNew(t, [][]uint32{{0, 255}, {pel.Red, 1}})

	var b bytes.Buffer
	require.NoError(t, m.Dump(&b, pel.DecimalFormat))
	assert.Equal(t, "0 255 \n16711680 1 \n", b.String())

	b.Reset()
	require.NoError(t, m.Dump(&b, pel.HexFormat))
	assert.Equal(t, "00000000 000000FF \n00FF0000 00000001 \n", b.String())
}
