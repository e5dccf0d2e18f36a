/*
Package bitmap converts between pel matrices and BMP files.

Gray bitmaps are written from the low byte of each pixel, matching the raw
single channel format, while RGB bitmaps carry all three color channels.
*/
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/bodgit/pelprep/pel"
	"github.com/bodgit/pelprep/raw"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Ext is the file extension used for bitmaps.
const Ext = ".bmp"

// Mode selects how pixels are laid out in raw input and bitmap output.
type Mode int

const (
	// Gray is one byte per pixel.
	Gray Mode = iota
	// RGB is three bytes per pixel, stored blue first in raw files.
	RGB
)

var errUnknownMode = errors.New("bitmap: unknown mode")

func (m Mode) String() string {
	switch m {
	case Gray:
		return "gray"
	case RGB:
		return "bgr"
	default:
		return "unknown"
	}
}

// ParseMode parses "gray", or "bgr"/"rgb".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "gray", "grey":
		return Gray, nil
	case "bgr", "rgb":
		return RGB, nil
	}
	return Gray, fmt.Errorf("%q: %w", s, errUnknownMode)
}

// Encode writes m to w as a BMP image.
func Encode(w io.Writer, m *pel.Matrix, mode Mode) error {
	switch mode {
	case Gray:
		return bmp.Encode(w, m.Gray())
	case RGB:
		return bmp.Encode(w, m.RGBA())
	}
	return errUnknownMode
}

// Decode reads a BMP image from r.
func Decode(r io.Reader) (*pel.Matrix, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, err
	}
	return pel.FromImage(img)
}

// ReadFile decodes the BMP image stored in file.
func ReadFile(file string) (*pel.Matrix, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile encodes m to file as a BMP image.
func WriteFile(file string, m *pel.Matrix, mode Mode) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, m, mode); err != nil {
		return err
	}

	return f.Close()
}

// ConvertRaw reads a width by height raw image from in and writes it to out
// as a bitmap. A short input file is converted zero-filled and the truncation
// error is returned once out has been written.
func ConvertRaw(mode Mode, width, height int, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	var m *pel.Matrix
	switch mode {
	case Gray:
		m, err = raw.Decode(f, width, height)
	case RGB:
		m, err = raw.DecodeBGR(f, width, height)
	default:
		return errUnknownMode
	}
	if m == nil {
		return err
	}

	if werr := WriteFile(out, m, mode); werr != nil {
		return werr
	}

	return err
}

// Scale resamples img to width by height using Catmull-Rom interpolation,
// which gives a smooth result when shrinking scanned images.
func Scale(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap: %dx%d: %w", width, height, pel.ErrInvalidDimension)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// ScaleFile smoothly rescales the bitmap in to width by height and writes the
// result to out.
func ScaleFile(in, out string, width, height int) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := bmp.Decode(f)
	if err != nil {
		return err
	}

	scaled, err := Scale(img, width, height)
	if err != nil {
		return err
	}

	o, err := os.Create(out)
	if err != nil {
		return err
	}
	defer o.Close()

	if err := bmp.Encode(o, scaled); err != nil {
		return err
	}

	return o.Close()
}
