package pel

import (
	"fmt"
	"math"
)

// WeightFunc maps a pixel value to a mass used by CenterOfMass. Negative
// masses are treated as zero.
type WeightFunc func(uint32) float64

// Intensity uses the packed pixel value itself as the mass.
func Intensity(v uint32) float64 {
	return float64(v)
}

// LuminanceWeight uses the Luminance of the pixel as the mass.
func LuminanceWeight(v uint32) float64 {
	return float64(Luminance(v))
}

// ChannelWeight returns a WeightFunc using the bits of the pixel covered by
// mask, shifted down so each channel weighs in the range 0-255.
func ChannelWeight(mask uint32) WeightFunc {
	shift := uint(0)
	for mask != 0 && mask>>shift&1 == 0 {
		shift++
	}
	return func(v uint32) float64 {
		return float64(v & mask >> shift)
	}
}

// CenterOfMass returns the weighted centroid of m. If the total mass is zero
// the centroid is undefined and an error wrapping ErrDegenerateImage is
// returned.
func (m *Matrix) CenterOfMass(weight WeightFunc) (float64, float64, error) {
	var sum, sx, sy float64
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			w := weight(m.at(x, y))
			if w <= 0 {
				continue
			}
			sum += w
			sx += float64(x) * w
			sy += float64(y) * w
		}
	}
	if sum == 0 {
		return 0, 0, fmt.Errorf("center of mass: %w", ErrDegenerateImage)
	}
	return sx / sum, sy / sum, nil
}

// Offset shifts the content of m by (dx, dy). Pixels moved outside the
// matrix are dropped and vacated pixels are Black.
func (m *Matrix) Offset(dx, dy int) *Matrix {
	out := m.blank()
	for y := 0; y < m.height; y++ {
		ty := y + dy
		if ty < 0 || ty >= m.height {
			continue
		}
		for x := 0; x < m.width; x++ {
			tx := x + dx
			if tx < 0 || tx >= m.width {
				continue
			}
			out.pix[ty*m.width+tx] = m.at(x, y)
		}
	}
	return out
}

// Recenter shifts m so that its center of mass, rounded to the nearest pixel,
// sits on the geometric center ((w-1)/2, (h-1)/2).
func (m *Matrix) Recenter(weight WeightFunc) (*Matrix, error) {
	cx, cy, err := m.CenterOfMass(weight)
	if err != nil {
		return nil, err
	}
	dx := int(math.Round(float64(m.width-1)/2 - cx))
	dy := int(math.Round(float64(m.height-1)/2 - cy))
	return m.Offset(dx, dy), nil
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Crop returns the region [x0,x1) x [y0,y1) of m after clamping it to the
// bounds of m.
func (m *Matrix) Crop(x0, y0, x1, y1 int) (*Matrix, error) {
	x0, x1 = clampInt(x0, 0, m.width), clampInt(x1, 0, m.width)
	y0, y1 = clampInt(y0, 0, m.height), clampInt(y1, 0, m.height)
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("crop [%d,%d)x[%d,%d): %w", x0, x1, y0, y1, ErrEmptyRegion)
	}
	out, err := newMatrix(x1-x0, y1-y0)
	if err != nil {
		return nil, err
	}
	for y := y0; y < y1; y++ {
		copy(out.pix[(y-y0)*out.width:], m.pix[y*m.width+x0:y*m.width+x1])
	}
	return out, nil
}

// Paste returns a copy of m with src drawn with its top-left corner at
// (x, y). Anything falling outside m is clipped.
func (m *Matrix) Paste(src *Matrix, x, y int) *Matrix {
	out := m.clone()
	for sy := 0; sy < src.height; sy++ {
		ty := y + sy
		if ty < 0 || ty >= m.height {
			continue
		}
		for sx := 0; sx < src.width; sx++ {
			tx := x + sx
			if tx < 0 || tx >= m.width {
				continue
			}
			out.pix[ty*m.width+tx] = src.at(sx, sy)
		}
	}
	return out
}

// Scale resamples m to width by height using nearest neighbour
// interpolation. Destination pixel d samples source pixel
// floor((d+0.5)*src/dst) on each axis.
func (m *Matrix) Scale(width, height int) (*Matrix, error) {
	out, err := newMatrix(width, height)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	for y := 0; y < height; y++ {
		sy := (2*y + 1) * m.height / (2 * height)
		for x := 0; x < width; x++ {
			sx := (2*x + 1) * m.width / (2 * width)
			out.pix[y*width+x] = m.at(sx, sy)
		}
	}
	return out, nil
}
