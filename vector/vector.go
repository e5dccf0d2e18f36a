/*
Package vector implements the normalized text vector format consumed by the
network trainer.

Each image is written as a single line. Every pixel, taken from the low byte,
is divided by 256 and written as a decimal followed by a space, in row-major
order, and the line is terminated by a newline. A corpus is simply a file of
such lines.
*/
package vector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bodgit/pelprep/pel"
)

const scale = 256.0

var (
	errBadValue = errors.New("vector: value out of range")
	errNoLine   = errors.New("vector: no vector to read")
)

// FormatValue formats a normalized value the way the trainer expects, always
// with at least one digit after the decimal point.
func FormatValue(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Encode writes m to w as a single vector line.
func Encode(w io.Writer, m *pel.Matrix) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Pixels() {
		if _, err := bw.WriteString(FormatValue(float64(v&0xff) / scale)); err != nil {
			return err
		}
		if err := bw.WriteByte(' '); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads the next vector line from r and returns it as a width by
// height single channel matrix. Missing values are zero-filled and reported
// with an error wrapping pel.ErrTruncatedInput, surplus values are ignored.
func Decode(r *bufio.Reader, width, height int) (*pel.Matrix, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return nil, errNoLine
		}
		return nil, err
	}

	fields := strings.Fields(line)
	b := make([]byte, 0, len(fields))
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("vector: value %d: %w", i, err)
		}
		v := math.Round(f * scale)
		if math.IsNaN(v) || v < 0 || v > 0xff {
			return nil, fmt.Errorf("value %d is %s: %w", i, field, errBadValue)
		}
		b = append(b, byte(v))
	}

	return pel.FromBytes(b, width, height)
}

// Writer writes a corpus of vectors, one per image.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends m to the corpus.
func (w *Writer) Write(m *pel.Matrix) error {
	if err := Encode(w.w, m); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of vectors written so far.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
