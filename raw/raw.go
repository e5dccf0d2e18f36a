/*
Package raw implements the headerless raw byte image format.

A gray image is stored as exactly width*height bytes, one per pixel, in
row-major order. A bgr image stores three bytes per pixel in blue, green, red
order. There is no header so the dimensions must be supplied by the caller.

Short files decode to a zero-filled image together with an error wrapping
pel.ErrTruncatedInput, callers wanting the historical lenient behaviour can
ignore that error with errors.Is.
*/
package raw

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/pelprep/pel"
)

// Ext is the file extension used for raw images.
const Ext = ".bin"

// readFull reads into b until it is full or the input runs out, returning the
// number of bytes read. Running out of input is not an error here.
func readFull(r io.Reader, b []byte) (int, error) {
	n, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return n, err
}

// Decode reads a width by height gray image from r.
func Decode(r io.Reader, width, height int) (*pel.Matrix, error) {
	if err := pel.CheckDimensions(width, height); err != nil {
		return nil, fmt.Errorf("raw: %w", err)
	}
	b := make([]byte, width*height)
	n, err := readFull(r, b)
	if err != nil {
		return nil, err
	}
	return pel.FromBytes(b[:n], width, height)
}

// DecodeBGR reads a width by height image stored as three bytes per pixel
// from r. A partial trailing pixel is discarded.
func DecodeBGR(r io.Reader, width, height int) (*pel.Matrix, error) {
	if err := pel.CheckDimensions(width, height); err != nil {
		return nil, fmt.Errorf("raw: %w", err)
	}
	b := make([]byte, width*height*3)
	n, err := readFull(r, b)
	if err != nil {
		return nil, err
	}

	grid := make([][]uint32, height)
	for y := range grid {
		grid[y] = make([]uint32, width)
		for x := range grid[y] {
			i := (y*width + x) * 3
			if i+2 < n {
				grid[y][x] = uint32(b[i+2])<<16 | uint32(b[i+1])<<8 | uint32(b[i])
			}
		}
	}

	m, err := pel.New(grid)
	if err != nil {
		return nil, err
	}
	if n < len(b) {
		return m, fmt.Errorf("raw: read %d of %d bytes: %w", n, len(b), pel.ErrTruncatedInput)
	}
	return m, nil
}

// Encode writes the low byte of every pixel of m to w in row-major order.
func Encode(w io.Writer, m *pel.Matrix) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Pixels() {
		if err := bw.WriteByte(byte(v)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFile decodes the gray image stored in file.
func ReadFile(file string, width, height int) (*pel.Matrix, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, width, height)
}

// WriteFile encodes m to file, replacing any existing content.
func WriteFile(file string, m *pel.Matrix) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, m); err != nil {
		return err
	}

	return f.Close()
}
