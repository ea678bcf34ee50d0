package batch

import (
	"fmt"
	"image/png"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/alphableed/internal/bleed"
)

// Options configures a batch run.
type Options struct {
	// Strategy selects the fill algorithm. Empty means bleed.Nearest.
	Strategy bleed.Strategy

	// Debug makes filled pixels visible (nearest strategy only; flood always
	// makes the image opaque).
	Debug bool

	// Workers bounds the number of files processed at once.
	// If zero or negative, GOMAXPROCS is used.
	Workers int

	// Backup stores a compressed copy of each original before it is replaced.
	Backup bool

	// DryRun runs decode, classify and fill but writes nothing.
	DryRun bool

	// Compression is the PNG compression level for rewritten files.
	Compression png.CompressionLevel
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Counters holds the result tallies of one batch run.
//
// Each dispatched file increments exactly one of the two counters. Both are
// updated with atomic adds only; a Counters value belongs to a single run.
type Counters struct {
	fixed  atomic.Int64
	failed atomic.Int64
}

// Fixed returns the number of files repaired so far.
func (c *Counters) Fixed() int64 { return c.fixed.Load() }

// Failed returns the number of files that could not be repaired so far.
func (c *Counters) Failed() int64 { return c.failed.Load() }

// Outcome is the result for a single file.
type Outcome struct {
	Path   string        `json:"path"`
	Fixed  bool          `json:"fixed"`
	Err    error         `json:"-"`
	Cause  string        `json:"error,omitempty"`
	Report *bleed.Report `json:"report,omitempty"`
}

// Summary reports a completed batch run.
type Summary struct {
	Fixed    int           `json:"fixed"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Outcomes []Outcome     `json:"outcomes"`
}

// Total returns the number of files dispatched.
func (s *Summary) Total() int {
	return s.Fixed + s.Failed
}

// Failures returns the outcomes of files that were not repaired.
func (s *Summary) Failures() []Outcome {
	var failures []Outcome
	for _, o := range s.Outcomes {
		if !o.Fixed {
			failures = append(failures, o)
		}
	}
	return failures
}

// Run repairs every path on a bounded pool of workers and blocks until all of
// them are done.
//
// Files are independent: a failure in one is recorded and never stops the
// others. The only error returned is for invalid options, before any file is
// touched. Outcomes are reported in the order of paths; processing order is
// unspecified.
func Run(paths []string, opts Options) (*Summary, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = bleed.Nearest
	}
	filler, err := bleed.NewFiller(strategy, bleed.Options{Debug: opts.Debug})
	if err != nil {
		return nil, fmt.Errorf("invalid batch options: %w", err)
	}

	workers := opts.workers()
	Logger().Info("batch started", "files", len(paths), "workers", workers, "strategy", strategy, "debug", opts.Debug)

	start := time.Now()
	var counters Counters
	outcomes := make([]Outcome, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path // per-iteration copies for pre-Go 1.22 loop semantics
		g.Go(func() error {
			outcomes[i] = runOne(path, filler, opts, &counters)
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{
		Fixed:    int(counters.Fixed()),
		Failed:   int(counters.Failed()),
		Elapsed:  time.Since(start),
		Outcomes: outcomes,
	}
	Logger().Info("batch finished", "fixed", summary.Fixed, "failed", summary.Failed, "elapsed", summary.Elapsed)
	return summary, nil
}

// runOne processes one file and records its result in counters. A panic in
// the pipeline is recorded as a failure of that file only.
func runOne(path string, filler bleed.Filler, opts Options, counters *Counters) (out Outcome) {
	out.Path = path

	defer func() {
		if p := recover(); p != nil {
			out.Fixed = false
			out.Err = &FileError{Path: path, Stage: StageFill, Err: fmt.Errorf("panic: %v", p)}
			out.Cause = out.Err.Error()
			counters.failed.Add(1)
			Logger().Error("repair panicked", "path", path, "panic", p)
		}
	}()

	Logger().Debug("repairing", "path", path)

	report, err := ProcessFile(path, filler, opts)
	out.Report = report
	if err != nil {
		out.Err = err
		out.Cause = err.Error()
		counters.failed.Add(1)
		Logger().Warn("repair failed", "path", path, "error", err)
		return out
	}

	out.Fixed = true
	counters.fixed.Add(1)
	return out
}
