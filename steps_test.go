package pelprep_test

import (
	"testing"

	"github.com/bodgit/pelprep"
	"github.com/bodgit/pelprep/pel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	src, err := pel.New([][]uint32{
		{0, 200, 0},
		{0, 100, 0},
	})
	require.NoError(t, err)

	tests := []struct {
		spec string
		want *pel.Matrix
	}{
		{"gray", src.Grayscale()},
		{"invert", src.OnesComplement()},
		{"channel:green", src.IsolateChannel(pel.Green)},
		{"offset-colors:0:0:-50", src.OffsetColors(0, 0, -50)},
		{"threshold:170:white:above", src.ForceThreshold(170, pel.White, pel.Above)},
		{"threshold:0x64:black:below", src.ForceThreshold(100, pel.Black, pel.Below)},
		{"THRESHOLD:150:255:Above", src.ForceThreshold(150, 255, pel.Above)},
		{"offset:1:-1", src.Offset(1, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			s, err := pelprep.ParseStep(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.spec, s.Spec)

			got, err := s.Transform(src)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want))
		})
	}
}

func TestParseStepFallible(t *testing.T) {
	src, err := pel.New([][]uint32{
		{0, 0, 0, 0},
		{0, 0, 0, 255},
	})
	require.NoError(t, err)

	s, err := pelprep.ParseStep("crop:1:0:4:2")
	require.NoError(t, err)
	got, err := s.Transform(src)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0, 0, 0, 0, 255}, got.Pixels())

	s, err = pelprep.ParseStep("scale:8:4")
	require.NoError(t, err)
	got, err = s.Transform(src)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Width())
	assert.Equal(t, 4, got.Height())

	s, err = pelprep.ParseStep("recenter")
	require.NoError(t, err)
	got, err = s.Transform(src)
	require.NoError(t, err)
	want, err := src.Recenter(pel.ChannelWeight(pel.Blue))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	s, err = pelprep.ParseStep("recenter:luminance")
	require.NoError(t, err)
	got, err = s.Transform(src)
	require.NoError(t, err)
	want, err = src.Recenter(pel.LuminanceWeight)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	s, err = pelprep.ParseStep("recenter:red")
	require.NoError(t, err)
	_, err = s.Transform(src)
	require.ErrorIs(t, err, pel.ErrDegenerateImage)

	s, err = pelprep.ParseStep("posterize:2")
	require.NoError(t, err)
	_, err = s.Transform(src)
	require.NoError(t, err)
}

func TestParseStepInvalid(t *testing.T) {
	for _, spec := range []string{
		"",
		"sharpen",
		"invert:1",
		"channel",
		"channel:alpha",
		"offset-colors:1:2",
		"threshold:170:white:sideways",
		"threshold:purple:white:above",
		"offset:a:b",
		"crop:0:0:1",
		"scale:0:10",
		"posterize:0",
		"recenter:blue:red",
	} {
		_, err := pelprep.ParseStep(spec)
		assert.Error(t, err, spec)
	}
}

func TestPipeline(t *testing.T) {
	p, err := pelprep.ParsePipeline(pelprep.DefaultSteps)
	require.NoError(t, err)
	assert.Equal(t, "threshold:170:white:above -> invert", p.String())

	src, err := pel.New([][]uint32{{0, 200, 170, 169}})
	require.NoError(t, err)

	got, err := p.Apply(src)
	require.NoError(t, err)
	assert.Equal(t, []uint32{pel.White, 0, 0, 0x00ffff56}, got.Pixels())

	// The source is left untouched for other pipelines
	assert.Equal(t, []uint32{0, 200, 170, 169}, src.Pixels())
}

func TestPipelineNamesFailingStep(t *testing.T) {
	p, err := pelprep.ParsePipeline([]string{"invert", "crop:10:10:20:20"})
	require.NoError(t, err)

	src, err := pel.NewUniform(4, 4, 0)
	require.NoError(t, err)

	_, err = p.Apply(src)
	require.ErrorIs(t, err, pel.ErrEmptyRegion)
	assert.Contains(t, err.Error(), "crop:10:10:20:20")
}

func TestSteps(t *testing.T) {
	steps := pelprep.Steps()
	assert.Contains(t, steps, "invert")
	assert.Contains(t, steps, "threshold:value:replacement:above|below")
	assert.IsIncreasing(t, steps)
}
