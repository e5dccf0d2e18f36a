package pel_test

import (
	"testing"

	"github.com/bodgit/pelprep/pel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnesComplement(t *testing.T) {
	m := mustNew(t, [][]uint32{{B, W, 0x00102030, 0xff000001}})
	got := m.OnesComplement()
	assert.Equal(t, []uint32{W, B, 0x00efdfcf, 0xfffffffe}, got.Pixels())

	for _, grid := range [][][]uint32{arrowL, box} {
		m := mustNew(t, grid)
		assert.True(t, m.OnesComplement().OnesComplement().Equal(m))
	}
}

func TestGrayscale(t *testing.T) {
	m := mustNew(t, [][]uint32{{pel.Red, 0x00102030, W, 0x80030303}})
	got := m.Grayscale()
	assert.Equal(t, []uint32{0x00555555, 0x00202020, W, 0x80030303}, got.Pixels())

	for _, grid := range [][][]uint32{arrowL, box} {
		g := mustNew(t, grid).Grayscale()
		assert.True(t, g.Grayscale().Equal(g))
	}
}

func TestIsolateChannel(t *testing.T) {
	m := mustNew(t, box)

	blue := m.IsolateChannel(pel.Blue)
	assert.True(t, blue.IsolateChannel(pel.Blue).Equal(blue))

	v, err := blue.At(2, 3)
	require.NoError(t, err)
	assert.Equal(t, pel.Blue, v)

	v, err = blue.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, B, v)

	// Two masks compose to their intersection
	gray := m.Grayscale()
	rg := pel.Red | pel.Green
	gb := pel.Green | pel.Blue
	assert.True(t, gray.IsolateChannel(rg).IsolateChannel(gb).Equal(gray.IsolateChannel(pel.Green)))
}

func TestOffsetColors(t *testing.T) {
	m := mustNew(t, [][]uint32{{W, B, 0x00807f10}})
	got := m.OffsetColors(0, 0, -127)
	assert.Equal(t, []uint32{0x00ffff80, B, 0x00807f00}, got.Pixels())

	got = m.OffsetColors(200, -200, 1)
	assert.Equal(t, []uint32{0x00ff37ff, 0x00c80001, 0x00ff0011}, got.Pixels())
}

func TestForceThreshold(t *testing.T) {
	grid := [][]uint32{
		{0, 0, 0},
		{0, 200, 0},
		{0, 0, 0},
	}
	m := mustNew(t, grid)
	got := m.ForceThreshold(170, W, pel.Above)

	want, err := m.WithPixel(1, 1, W)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	// Source is left untouched
	v, err := m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), v)
}

func TestForceThresholdBelow(t *testing.T) {
	m := mustNew(t, [][]uint32{{10, 50, 51, 255}})
	got := m.ForceThreshold(50, B, pel.Below)
	assert.Equal(t, []uint32{B, B, 51, 255}, got.Pixels())

	got = m.ForceThreshold(51, W, pel.Above)
	assert.Equal(t, []uint32{10, 50, W, W}, got.Pixels())
}

func TestPosterize(t *testing.T) {
	m := mustNew(t, box)
	got, err := m.Posterize(2)
	require.NoError(t, err)
	assert.Equal(t, m.Width(), got.Width())
	assert.Equal(t, m.Height(), got.Height())

	colors := make(map[uint32]struct{})
	for _, v := range got.Pixels() {
		colors[v] = struct{}{}
	}
	assert.LessOrEqual(t, len(colors), 2)

	_, err = m.Posterize(0)
	require.ErrorIs(t, err, pel.ErrInvalidPalette)
}

func TestImageRoundTrip(t *testing.T) {
	m := mustNew(t, box)
	got, err := pel.FromImage(m.RGBA())
	require.NoError(t, err)
	assert.True(t, got.Equal(m))

	g := mustNew(t, [][]uint32{{0, 128}, {255, 64}})
	img := g.Gray()
	assert.Equal(t, []uint8{0, 128, 255, 64}, img.Pix)
}
