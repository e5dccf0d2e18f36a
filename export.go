package pelprep

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/pelprep/pel"
	"github.com/bodgit/pelprep/vector"
	"github.com/sirupsen/logrus"
)

func (p *Preparer) exportItem(w *vector.Writer, item Item) Result {
	r := Result{
		Item:  item,
		Input: filepath.Join(p.cfg.Output, item.Filename(true)),
	}

	f, err := os.Open(r.Input)
	if err != nil {
		r.Err = err
		return r
	}
	defer f.Close()

	// Every byte is exported, steps such as crop and scale change the size
	h := sha1.New()
	b, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		r.Err = err
		return r
	}
	r.InputSHA1 = sum(h)

	m, err := pel.FromBytes(b, len(b), 1)
	if err != nil {
		r.Err = fmt.Errorf("%s: %w", r.Input, err)
		return r
	}
	if len(b) != p.cfg.Width*p.cfg.Height {
		p.logger.WithFields(logrus.Fields{
			"item":   item.String(),
			"pixels": len(b),
		}).Debug("Processed image size differs from input")
	}

	r.Err = w.Write(m)

	return r
}

func (p *Preparer) exportCorpus(ctx context.Context, file string, items []Item, report *Report) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := vector.NewWriter(f)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := p.exportItem(w, item)
		r.Output = file
		p.record(StageExport, r)
		report.Results = append(report.Results, r)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"file":    file,
		"vectors": w.Count(),
	}).Info("Corpus written")

	return f.Close()
}

// Export writes the training corpus, every type except the held out one, and
// the test corpus, the held out type only, from the processed images. Items
// that cannot be read are reported and skipped.
func (p *Preparer) Export(ctx context.Context) (*Report, error) {
	var train, test []Item
	for _, item := range p.cfg.Grid() {
		if item.Type == p.cfg.HoldOut {
			test = append(test, item)
		} else {
			train = append(train, item)
		}
	}

	report := new(Report)
	if err := p.exportCorpus(ctx, p.cfg.Train, train, report); err != nil {
		return report, err
	}
	if err := p.exportCorpus(ctx, p.cfg.Test, test, report); err != nil {
		return report, err
	}

	return report, nil
}
