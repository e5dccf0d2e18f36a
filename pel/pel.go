/*
Package pel implements an immutable two dimensional array of packed pixel
values along with the color and spatial transforms used to prepare scanned
images for training.

Each pixel is a uint32 laid out as 0xAARRGGBB, every channel being an 8-bit
value. Images decoded from raw single channel data only populate the blue
(least significant) byte. Every transform returns a new Matrix, the receiver
is never modified, so one decoded source can be fed through any number of
pipelines.
*/
package pel

import (
	"fmt"
	"io"
)

// Packed color constants and channel masks.
const (
	Black uint32 = 0x00000000
	White uint32 = 0x00ffffff

	Red   uint32 = 0x00ff0000
	Green uint32 = 0x0000ff00
	Blue  uint32 = 0x000000ff
	Alpha uint32 = 0xff000000
)

// Formats accepted by Dump.
const (
	DecimalFormat = "%d "
	HexFormat     = "%08X "
)

// Matrix is a fixed size grid of packed pixel values stored in row-major
// order. The zero value is not usable, use one of the constructors.
type Matrix struct {
	width, height int
	pix           []uint32
}

// MaxPixels is the largest number of pixels a Matrix may hold.
const MaxPixels = 1 << 28

// CheckDimensions returns an error wrapping ErrInvalidDimension unless width
// and height are positive and their product is at most MaxPixels.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxPixels/height {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimension)
	}
	return nil
}

func newMatrix(width, height int) (*Matrix, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	return &Matrix{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}, nil
}

// New returns a Matrix holding a copy of grid, which is indexed [y][x].
func New(grid [][]uint32) (*Matrix, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty grid: %w", ErrInvalidDimension)
	}
	m, err := newMatrix(len(grid[0]), len(grid))
	if err != nil {
		return nil, err
	}
	for y, row := range grid {
		if len(row) != m.width {
			return nil, fmt.Errorf("row %d has %d values, expected %d: %w", y, len(row), m.width, ErrDimension)
		}
		copy(m.pix[y*m.width:], row)
	}
	return m, nil
}

// NewUniform returns a width by height Matrix with every pixel set to v.
func NewUniform(width, height int, v uint32) (*Matrix, error) {
	m, err := newMatrix(width, height)
	if err != nil {
		return nil, err
	}
	if v != 0 {
		for i := range m.pix {
			m.pix[i] = v
		}
	}
	return m, nil
}

// FromBytes builds a single channel Matrix from exactly width*height bytes
// in row-major order. Surplus bytes are ignored. If b is too short the
// remaining pixels are left at zero and the Matrix is returned along with an
// error wrapping ErrTruncatedInput, the caller decides whether that is fatal.
func FromBytes(b []byte, width, height int) (*Matrix, error) {
	m, err := newMatrix(width, height)
	if err != nil {
		return nil, err
	}
	n := copyBytes(m.pix, b)
	if n < len(m.pix) {
		return m, fmt.Errorf("read %d of %d bytes: %w", n, len(m.pix), ErrTruncatedInput)
	}
	return m, nil
}

func copyBytes(dst []uint32, src []byte) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = uint32(src[i])
	}
	return n
}

// Width returns the number of columns.
func (m *Matrix) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Matrix) Height() int {
	return m.height
}

func (m *Matrix) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func (m *Matrix) at(x, y int) uint32 {
	return m.pix[y*m.width+x]
}

// At returns the pixel at (x, y).
func (m *Matrix) At(x, y int) (uint32, error) {
	if !m.inBounds(x, y) {
		return 0, fmt.Errorf("(%d, %d) in %dx%d: %w", x, y, m.width, m.height, ErrOutOfBounds)
	}
	return m.at(x, y), nil
}

// WithPixel returns a copy of m with the pixel at (x, y) replaced by v.
func (m *Matrix) WithPixel(x, y int, v uint32) (*Matrix, error) {
	if !m.inBounds(x, y) {
		return nil, fmt.Errorf("(%d, %d) in %dx%d: %w", x, y, m.width, m.height, ErrOutOfBounds)
	}
	dup := m.clone()
	dup.pix[y*m.width+x] = v
	return dup, nil
}

// Pixels returns a copy of the pixel values in row-major order.
func (m *Matrix) Pixels() []uint32 {
	return append([]uint32(nil), m.pix...)
}

// Equal reports whether o has the same dimensions and pixel values as m.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i, v := range m.pix {
		if o.pix[i] != v {
			return false
		}
	}
	return true
}

func (m *Matrix) clone() *Matrix {
	return &Matrix{
		width:  m.width,
		height: m.height,
		pix:    m.Pixels(),
	}
}

// blank returns a zeroed Matrix with the same dimensions as m.
func (m *Matrix) blank() *Matrix {
	return &Matrix{
		width:  m.width,
		height: m.height,
		pix:    make([]uint32, len(m.pix)),
	}
}

// mapPixels applies fn to every pixel and returns the result as a new Matrix.
func (m *Matrix) mapPixels(fn func(uint32) uint32) *Matrix {
	out := m.blank()
	for i, v := range m.pix {
		out.pix[i] = fn(v)
	}
	return out
}

// Dump writes m to w, one line per row, formatting each pixel with format,
// typically DecimalFormat or HexFormat.
func (m *Matrix) Dump(w io.Writer, format string) error {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if _, err := fmt.Fprintf(w, format, m.at(x, y)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
