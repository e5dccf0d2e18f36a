package pelprep

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Default image dimensions expected by the trainer.
const (
	DefaultWidth  = 100
	DefaultHeight = 150
)

// Default corpus file names.
const (
	DefaultTrainFile = "Image_Train.txt"
	DefaultTestFile  = "Image_Test.txt"
)

// DefaultSteps binarizes the scan, forcing bright pixels to white, and then
// inverts it so the subject carries the mass.
var DefaultSteps = []string{"threshold:170:white:above", "invert"}

var errInvalidConfig = errors.New("pelprep: invalid configuration")

// Config describes a dataset and how to prepare it.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Input holds the raw images, Output receives processed images.
	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	Types   []int `yaml:"types"`
	Numbers []int `yaml:"numbers"`

	// HoldOut is the image type exported to the test corpus, every other
	// type goes to the training corpus.
	HoldOut int `yaml:"holdout"`

	Steps   []string `yaml:"steps"`
	Bitmap  bool     `yaml:"bitmap"`
	Strict  bool     `yaml:"strict"`
	Workers int      `yaml:"workers"`

	Train string `yaml:"train"`
	Test  string `yaml:"test"`
}

func sequence(from, to int) []int {
	s := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		s = append(s, i)
	}
	return s
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Input:   ".",
		Output:  ".",
		Types:   sequence(1, 6),
		Numbers: sequence(1, 5),
		HoldOut: 5,
		Steps:   append([]string(nil), DefaultSteps...),
		Workers: 1,
		Train:   DefaultTrainFile,
		Test:    DefaultTestFile,
	}
}

// LoadConfig reads a YAML configuration from file on top of DefaultConfig.
// Unknown keys are rejected, an empty file yields the defaults.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(file)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("%s: %w", file, err)
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", errInvalidConfig, c.Width, c.Height)
	case len(c.Types) == 0 || len(c.Numbers) == 0:
		return fmt.Errorf("%w: empty image grid", errInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: %d workers", errInvalidConfig, c.Workers)
	}

	if _, err := ParsePipeline(c.Steps); err != nil {
		return err
	}

	return nil
}

// Grid returns every item described by the configuration.
func (c Config) Grid() []Item {
	return Grid(c.Types, c.Numbers)
}
