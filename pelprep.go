/*
Package pelprep is a library for preparing labeled image datasets for a
neural network trainer.

Raw scanned images named {type}_{num}.bin are decoded into pixel matrices,
run through a pipeline of color and spatial transforms and written back out
as {type}_{num}_processed.bin. The processed images are then exported as
training and test corpora of normalized text vectors, one line per image.
*/
package pelprep

import (
	"github.com/sirupsen/logrus"
)

// Preparer runs the batch processing and export stages for one dataset.
type Preparer struct {
	cfg      Config
	pipeline Pipeline
	manifest *Manifest
	logger   logrus.FieldLogger
}

// New returns a Preparer for cfg. The manifest is optional, pass nil to skip
// recording results.
func New(cfg Config, manifest *Manifest, logger logrus.FieldLogger) (*Preparer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pipeline, err := ParsePipeline(cfg.Steps)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	return &Preparer{
		cfg:      cfg,
		pipeline: pipeline,
		manifest: manifest,
		logger:   logger,
	}, nil
}

// Pipeline returns the parsed transform pipeline.
func (p *Preparer) Pipeline() Pipeline {
	return p.pipeline
}
