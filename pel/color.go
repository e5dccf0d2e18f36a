package pel

// Direction selects which side of a threshold ForceThreshold replaces.
type Direction int

const (
	// Above replaces pixels greater than or equal to the threshold.
	Above Direction = iota
	// Below replaces pixels less than or equal to the threshold.
	Below
)

func (d Direction) String() string {
	switch d {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return "unknown"
	}
}

func channels(v uint32) (a, r, g, b uint32) {
	return v >> 24, v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff
}

func pack(a, r, g, b uint32) uint32 {
	return a<<24 | r<<16 | g<<8 | b
}

func clamp(v int) uint32 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}
	return uint32(v)
}

// Luminance returns the unweighted integer mean of the red, green and blue
// channels of v.
func Luminance(v uint32) uint32 {
	_, r, g, b := channels(v)
	return (r + g + b) / 3
}

// Grayscale replaces the red, green and blue channels of every pixel with its
// Luminance. Alpha is left as is.
func (m *Matrix) Grayscale() *Matrix {
	return m.mapPixels(func(v uint32) uint32 {
		l := Luminance(v)
		return pack(v>>24, l, l, l)
	})
}

// OnesComplement inverts every color channel, v becomes 255-v. Alpha is
// left as is.
func (m *Matrix) OnesComplement() *Matrix {
	return m.mapPixels(func(v uint32) uint32 {
		return v ^ White
	})
}

// IsolateChannel zeroes every bit of every pixel not covered by mask, such as
// Red, Green, Blue or a combination of them.
func (m *Matrix) IsolateChannel(mask uint32) *Matrix {
	return m.mapPixels(func(v uint32) uint32 {
		return v & mask
	})
}

// OffsetColors adds the given deltas to the red, green and blue channels of
// every pixel, saturating at 0 and 255.
func (m *Matrix) OffsetColors(dr, dg, db int) *Matrix {
	return m.mapPixels(func(v uint32) uint32 {
		a, r, g, b := channels(v)
		return pack(a, clamp(int(r)+dr), clamp(int(g)+dg), clamp(int(b)+db))
	})
}

// ForceThreshold replaces every pixel whose packed value is on the given side
// of threshold, inclusive, with replacement. For single channel images the
// packed value is the intensity.
func (m *Matrix) ForceThreshold(threshold, replacement uint32, direction Direction) *Matrix {
	return m.mapPixels(func(v uint32) uint32 {
		if (direction == Above && v >= threshold) || (direction == Below && v <= threshold) {
			return replacement
		}
		return v
	})
}
