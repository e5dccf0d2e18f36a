package pelprep

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/pelprep/bitmap"
	"github.com/bodgit/pelprep/pel"
	"github.com/bodgit/pelprep/raw"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one item.
type Result struct {
	Item       Item
	Input      string
	Output     string
	InputSHA1  string
	OutputSHA1 string
	Truncated  bool
	Err        error
}

// Status summarises the result for the manifest.
func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.Truncated:
		return StatusTruncated
	default:
		return StatusOK
	}
}

// Report collects the results of a run. A failed item never aborts the run.
type Report struct {
	Results []Result
}

func (r *Report) sort() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		a, b := r.Results[i].Item, r.Results[j].Item
		if a.Num != b.Num {
			return a.Num < b.Num
		}
		return a.Type < b.Type
	})
}

// Failed returns the results of items that failed.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded returns the number of items that were processed.
func (r *Report) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}

// Err returns an error summarising every failed item, or nil.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, res := range failed {
		names[i] = res.Item.String()
	}
	return fmt.Errorf("%d of %d items failed: %s", len(failed), len(r.Results), strings.Join(names, ", "))
}

func sum(h hash.Hash) string {
	return fmt.Sprintf("%X", h.Sum(nil))
}

func (p *Preparer) generateItems(ctx context.Context, items []Item) (<-chan Item, <-chan error) {
	out := make(chan Item)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			select {
			case out <- item:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (p *Preparer) itemWorker(ctx context.Context, in <-chan Item, results chan<- Result, wg *sync.WaitGroup) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for item := range in {
			select {
			case results <- p.processItem(item):
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc
}

func (p *Preparer) readItem(file string) (*pel.Matrix, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	m, err := raw.Decode(io.TeeReader(f, h), p.cfg.Width, p.cfg.Height)
	if m == nil {
		return nil, "", err
	}
	// Drain anything past the declared size so the checksum covers the file
	if _, cerr := io.Copy(h, f); cerr != nil {
		return nil, "", cerr
	}
	return m, sum(h), err
}

// writeFile creates file and fills it using write, returning the SHA-1 of the
// content. The file is removed if anything fails so a partial image is never
// left behind.
func writeFile(file string, write func(io.Writer) error) (_ string, err error) {
	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(file)
		}
	}()

	h := sha1.New()
	if err = write(io.MultiWriter(f, h)); err != nil {
		return "", err
	}

	if err = f.Close(); err != nil {
		return "", err
	}

	return sum(h), nil
}

func (p *Preparer) writeItem(file string, m *pel.Matrix) (string, error) {
	return writeFile(file, func(w io.Writer) error {
		return raw.Encode(w, m)
	})
}

func (p *Preparer) processItem(item Item) Result {
	r := Result{
		Item:   item,
		Input:  filepath.Join(p.cfg.Input, item.Filename(false)),
		Output: filepath.Join(p.cfg.Output, item.Filename(true)),
	}
	logger := p.logger.WithFields(logrus.Fields{
		"item":  item.String(),
		"input": r.Input,
	})

	m, sha, err := p.readItem(r.Input)
	r.InputSHA1 = sha
	switch {
	case errors.Is(err, pel.ErrTruncatedInput) && !p.cfg.Strict:
		logger.WithError(err).Warn("Input truncated, zero-filling")
		r.Truncated = true
	case err != nil:
		r.Err = err
		return r
	}

	if m, err = p.pipeline.Apply(m); err != nil {
		r.Err = err
		return r
	}

	if r.OutputSHA1, err = p.writeItem(r.Output, m); err != nil {
		r.Err = err
		return r
	}

	if p.cfg.Bitmap {
		file := strings.TrimSuffix(r.Output, raw.Ext) + bitmap.Ext
		if err := bitmap.WriteFile(file, m, bitmap.Gray); err != nil {
			r.Err = err
			return r
		}
	}

	logger.WithField("output", r.Output).Debug("Processed")

	return r
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	var first error
	for err := range errc {
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (p *Preparer) record(stage string, r Result) {
	if r.Err != nil {
		p.logger.WithFields(logrus.Fields{
			"item":  r.Item.String(),
			"stage": stage,
		}).WithError(r.Err).Error("Item failed")
	}
	if p.manifest == nil {
		return
	}
	if err := p.manifest.Record(stage, r); err != nil {
		p.logger.WithField("item", r.Item.String()).WithError(err).Error("Unable to update manifest")
	}
}

// Process runs every item of the dataset through the pipeline, writing the
// processed images to the output directory. Item failures are collected in
// the returned Report, the error is only non-nil if the run itself was
// interrupted.
func (p *Preparer) Process(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(p.cfg.Output, 0o755); err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	items, errc := p.generateItems(ctx, p.cfg.Grid())
	errcList = append(errcList, errc)

	results := make(chan Result)
	var wg sync.WaitGroup
	wg.Add(p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		errcList = append(errcList, p.itemWorker(ctx, items, results, &wg))
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	report := new(Report)
	for r := range results {
		p.record(StageProcess, r)
		report.Results = append(report.Results, r)
	}
	report.sort()

	p.logger.WithFields(logrus.Fields{
		"pipeline": p.pipeline.String(),
		"ok":       report.Succeeded(),
		"failed":   len(report.Failed()),
	}).Info("Processing finished")

	return report, waitForPipeline(errcList...)
}
