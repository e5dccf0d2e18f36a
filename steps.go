package pelprep

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bodgit/pelprep/pel"
)

var (
	errUnknownStep = errors.New("pelprep: unknown step")
	errStepArgs    = errors.New("pelprep: bad step arguments")
)

// TransformFunc is a single stage of a pipeline.
type TransformFunc func(*pel.Matrix) (*pel.Matrix, error)

// Step is a named pipeline stage parsed from a string such as
// "threshold:170:white:above".
type Step struct {
	Spec      string
	Transform TransformFunc
}

type stepFactory struct {
	args  string
	build func(args []string) (TransformFunc, error)
}

func pure(fn func(*pel.Matrix) *pel.Matrix) TransformFunc {
	return func(m *pel.Matrix) (*pel.Matrix, error) {
		return fn(m), nil
	}
}

var steps = map[string]stepFactory{
	"gray": {"", func(args []string) (TransformFunc, error) {
		return pure((*pel.Matrix).Grayscale), nil
	}},
	"invert": {"", func(args []string) (TransformFunc, error) {
		return pure((*pel.Matrix).OnesComplement), nil
	}},
	"channel": {"red|green|blue", func(args []string) (TransformFunc, error) {
		mask, err := parseChannel(args[0])
		if err != nil {
			return nil, err
		}
		return pure(func(m *pel.Matrix) *pel.Matrix {
			return m.IsolateChannel(mask)
		}), nil
	}},
	"offset-colors": {"dr:dg:db", func(args []string) (TransformFunc, error) {
		d, err := parseInts(args)
		if err != nil {
			return nil, err
		}
		return pure(func(m *pel.Matrix) *pel.Matrix {
			return m.OffsetColors(d[0], d[1], d[2])
		}), nil
	}},
	"threshold": {"value:replacement:above|below", func(args []string) (TransformFunc, error) {
		threshold, err := parseColor(args[0])
		if err != nil {
			return nil, err
		}
		replacement, err := parseColor(args[1])
		if err != nil {
			return nil, err
		}
		direction, err := parseDirection(args[2])
		if err != nil {
			return nil, err
		}
		return pure(func(m *pel.Matrix) *pel.Matrix {
			return m.ForceThreshold(threshold, replacement, direction)
		}), nil
	}},
	"offset": {"dx:dy", func(args []string) (TransformFunc, error) {
		d, err := parseInts(args)
		if err != nil {
			return nil, err
		}
		return pure(func(m *pel.Matrix) *pel.Matrix {
			return m.Offset(d[0], d[1])
		}), nil
	}},
	"recenter": {"[red|green|blue|intensity|luminance]", func(args []string) (TransformFunc, error) {
		weight := pel.ChannelWeight(pel.Blue)
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "intensity":
				weight = pel.Intensity
			case "luminance":
				weight = pel.LuminanceWeight
			default:
				mask, err := parseChannel(args[0])
				if err != nil {
					return nil, err
				}
				weight = pel.ChannelWeight(mask)
			}
		}
		return func(m *pel.Matrix) (*pel.Matrix, error) {
			return m.Recenter(weight)
		}, nil
	}},
	"crop": {"x0:y0:x1:y1", func(args []string) (TransformFunc, error) {
		r, err := parseInts(args)
		if err != nil {
			return nil, err
		}
		return func(m *pel.Matrix) (*pel.Matrix, error) {
			return m.Crop(r[0], r[1], r[2], r[3])
		}, nil
	}},
	"scale": {"width:height", func(args []string) (TransformFunc, error) {
		d, err := parseInts(args)
		if err != nil {
			return nil, err
		}
		if d[0] <= 0 || d[1] <= 0 {
			return nil, fmt.Errorf("%dx%d: %w", d[0], d[1], pel.ErrInvalidDimension)
		}
		return func(m *pel.Matrix) (*pel.Matrix, error) {
			return m.Scale(d[0], d[1])
		}, nil
	}},
	"posterize": {"colors", func(args []string) (TransformFunc, error) {
		n, err := parseInts(args)
		if err != nil {
			return nil, err
		}
		if n[0] < 1 {
			return nil, pel.ErrInvalidPalette
		}
		return func(m *pel.Matrix) (*pel.Matrix, error) {
			return m.Posterize(n[0])
		}, nil
	}},
}

// argCount returns the minimum and maximum number of arguments described by
// an argument usage string.
func argCount(usage string) (int, int) {
	if usage == "" {
		return 0, 0
	}
	n := strings.Count(usage, ":") + 1
	if strings.HasPrefix(usage, "[") {
		return 0, n
	}
	return n, n
}

// Steps returns the usage of every registered step, sorted by name.
func Steps() []string {
	usage := make([]string, 0, len(steps))
	for name, f := range steps {
		if f.args == "" {
			usage = append(usage, name)
		} else {
			usage = append(usage, name+":"+f.args)
		}
	}
	sort.Strings(usage)
	return usage
}

// ParseStep parses a step of the form name[:arg...].
func ParseStep(spec string) (Step, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	f, ok := steps[strings.ToLower(parts[0])]
	if !ok {
		return Step{}, fmt.Errorf("%q: %w", spec, errUnknownStep)
	}

	args := parts[1:]
	if lo, hi := argCount(f.args); len(args) < lo || len(args) > hi {
		return Step{}, fmt.Errorf("%q expects %d argument(s): %w", spec, hi, errStepArgs)
	}

	fn, err := f.build(args)
	if err != nil {
		return Step{}, fmt.Errorf("%q: %w", spec, err)
	}

	return Step{Spec: spec, Transform: fn}, nil
}

// Pipeline is an ordered list of steps, each consuming the output of the
// previous one.
type Pipeline []Step

// ParsePipeline parses each spec in turn.
func ParsePipeline(specs []string) (Pipeline, error) {
	p := make(Pipeline, 0, len(specs))
	for _, spec := range specs {
		s, err := ParseStep(spec)
		if err != nil {
			return nil, err
		}
		p = append(p, s)
	}
	return p, nil
}

// Apply runs m through every step. The first failing step aborts the
// pipeline and is named in the returned error.
func (p Pipeline) Apply(m *pel.Matrix) (*pel.Matrix, error) {
	for _, s := range p {
		var err error
		if m, err = s.Transform(m); err != nil {
			return nil, fmt.Errorf("step %q: %w", s.Spec, err)
		}
	}
	return m, nil
}

func (p Pipeline) String() string {
	specs := make([]string, len(p))
	for i, s := range p {
		specs[i] = s.Spec
	}
	return strings.Join(specs, " -> ")
}

func parseInts(args []string) ([]int, error) {
	ints := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errStepArgs, err)
		}
		ints[i] = v
	}
	return ints, nil
}

var namedColors = map[string]uint32{
	"black": pel.Black,
	"white": pel.White,
	"red":   pel.Red,
	"green": pel.Green,
	"blue":  pel.Blue,
}

// parseColor accepts a color name or a number in any base strconv
// understands, such as 170 or 0x00ffffff.
func parseColor(s string) (uint32, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errStepArgs, err)
	}
	return uint32(v), nil
}

func parseChannel(s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "red":
		return pel.Red, nil
	case "green":
		return pel.Green, nil
	case "blue":
		return pel.Blue, nil
	}
	return 0, fmt.Errorf("%w: unknown channel %q", errStepArgs, s)
}

func parseDirection(s string) (pel.Direction, error) {
	switch strings.ToLower(s) {
	case pel.Above.String():
		return pel.Above, nil
	case pel.Below.String():
		return pel.Below, nil
	}
	return pel.Above, fmt.Errorf("%w: unknown direction %q", errStepArgs, s)
}
