package pel

import "errors"

// Errors returned by Matrix constructors and transforms. They are returned
// wrapped with context, match them with errors.Is.
var (
	// ErrDimension is returned for a ragged grid.
	ErrDimension = errors.New("pel: rows have unequal length")

	// ErrOutOfBounds is returned when a pixel outside the grid is addressed.
	ErrOutOfBounds = errors.New("pel: pixel out of bounds")

	// ErrTruncatedInput is returned alongside a zero-filled Matrix when
	// fewer bytes than declared were available.
	ErrTruncatedInput = errors.New("pel: truncated input")

	// ErrDegenerateImage is returned when the total mass is zero and the
	// center of mass is undefined.
	ErrDegenerateImage = errors.New("pel: image has no mass")

	ErrEmptyRegion      = errors.New("pel: region has zero area")
	ErrInvalidDimension = errors.New("pel: invalid dimensions")
	ErrInvalidPalette   = errors.New("pel: palette size must be positive")
)
