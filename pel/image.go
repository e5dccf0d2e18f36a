package pel

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// RGBA returns m as an opaque image.RGBA. The alpha byte is not carried over.
func (m *Matrix) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			_, r, g, b := channels(m.at(x, y))
			img.SetRGBA(x, y, color.RGBA{uint8(r), uint8(g), uint8(b), 0xff})
		}
	}
	return img
}

// Gray returns the single channel held in the low byte of each pixel as an
// image.Gray.
func (m *Matrix) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetGray(x, y, color.Gray{uint8(m.at(x, y))})
		}
	}
	return img
}

// FromImage packs the red, green and blue channels of img into a Matrix with
// its top-left corner at (0, 0). Grayscale images produce equal channels.
func FromImage(img image.Image) (*Matrix, error) {
	b := img.Bounds()
	m, err := newMatrix(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			m.pix[(y-b.Min.Y)*m.width+x-b.Min.X] = pack(0, uint32(c.R), uint32(c.G), uint32(c.B))
		}
	}
	return m, nil
}

// Posterize reduces m to at most n distinct colors using a median cut
// palette, mapping each pixel to its closest palette entry.
func (m *Matrix) Posterize(n int) (*Matrix, error) {
	if n < 1 {
		return nil, ErrInvalidPalette
	}
	src := m.RGBA()
	b := src.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), src))
	draw.Draw(pm, b, src, b.Min, draw.Src)

	return FromImage(pm)
}
