// Package pipeline drives an extract run: it selects input files, streams
// their listings through the extractors and accumulates the rows of every
// file into one relation.Set.
//
// Files are processed strictly one after another. Each file is extracted into
// its own staging set that is merged into the run set only when the whole
// file succeeded, so a file is either fully reflected in the output or not at
// all.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"auctionetl/internal/datasource/file"
	"auctionetl/internal/extract"
	"auctionetl/internal/listing"
	"auctionetl/internal/metrics"
	parserjson "auctionetl/internal/parser/json"
	"auctionetl/internal/relation"
)

// Logger is the minimal logging interface used by the runner.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Runner processes a list of input paths.
type Runner struct {
	Logger Logger

	// KeepGoing turns per-file failures (unreadable file, malformed JSON,
	// malformed listing) into a logged skip of that whole file. When false the
	// first failure aborts the run.
	KeepGoing bool

	// EnvelopeKey names the array of listings in each document.
	// Defaults to "Items".
	EnvelopeKey string

	// Open is a seam for tests. Defaults to file.Open.
	Open func(path string) (io.ReadCloser, error)
}

// FileResult describes the outcome of one input file.
type FileResult struct {
	Path     string
	Listings int
	Counts   relation.Counts // rows of this file; categories deduplicated within the file only
	Err      error           // non-nil only for skipped files in KeepGoing mode
}

// Summary describes a completed run.
type Summary struct {
	Files   []FileResult
	Ignored []string // paths without the input suffix
	Failed  int
	Counts  relation.Counts
}

// Run extracts every input file among paths, in order, and returns the
// accumulated rows. The caller owns the returned set and is expected to
// Flush it exactly once.
//
// Errors:
//   - Without KeepGoing, the first file error is returned (wrapped with the
//     path) together with a nil set.
//   - With KeepGoing, file errors are recorded in the Summary and Run returns
//     a nil error; Summary.Failed counts them.
//   - Context cancellation is always returned.
func (r *Runner) Run(ctx context.Context, paths []string) (*relation.Set, Summary, error) {
	logf := r.logger()

	var sum Summary
	for _, p := range paths {
		if !file.IsInput(p) {
			sum.Ignored = append(sum.Ignored, p)
			logf("stage=select path=%s skipped=not_json", p)
		}
	}

	set := relation.NewSet()
	for _, p := range file.Select(paths) {
		if err := ctx.Err(); err != nil {
			return nil, sum, err
		}

		start := time.Now()
		staged, n, err := r.ExtractFile(ctx, p)
		res := FileResult{Path: p, Listings: n}

		if err != nil {
			metrics.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": "failed"})
			metrics.ObserveDuration(metrics.FileDurationSeconds, start, metrics.Labels{"status": "failed"})

			if !r.KeepGoing || ctx.Err() != nil {
				return nil, sum, err
			}
			res.Err = err
			sum.Failed++
			sum.Files = append(sum.Files, res)
			logf("stage=file path=%s status=skipped err=%v", p, err)
			continue
		}

		res.Counts = staged.Counts()
		set.Merge(staged)
		sum.Files = append(sum.Files, res)

		metrics.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": "ok"})
		metrics.IncCounter(metrics.ListingsTotal, float64(n), nil)
		metrics.ObserveDuration(metrics.FileDurationSeconds, start, metrics.Labels{"status": "ok"})
		logf("stage=file path=%s status=ok listings=%d duration=%s", p, n, time.Since(start).Truncate(time.Millisecond))
	}

	sum.Counts = set.Counts()
	metrics.IncCounter(metrics.RowsTotal, float64(sum.Counts.Items), metrics.Labels{"table": "item"})
	metrics.IncCounter(metrics.RowsTotal, float64(sum.Counts.Categories), metrics.Labels{"table": "category"})
	metrics.IncCounter(metrics.RowsTotal, float64(sum.Counts.Belongs), metrics.Labels{"table": "belongs"})

	return set, sum, nil
}

// ExtractFile extracts one input file into a fresh set and returns it with
// the number of listings read. On error the partial set is discarded.
func (r *Runner) ExtractFile(ctx context.Context, path string) (*relation.Set, int, error) {
	open := r.Open
	if open == nil {
		open = file.Open
	}

	rc, err := open(path)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	staged := relation.NewSet()
	n := 0
	emit := func(line int, obj map[string]any) error {
		l, err := listing.FromRecord(obj)
		if err != nil {
			return fmt.Errorf("record %d: %w", line, err)
		}
		extract.Listing(l, staged)
		n++
		return nil
	}

	if err := parserjson.StreamRecords(ctx, rc, r.EnvelopeKey, emit, nil); err != nil {
		if ctx.Err() != nil {
			return nil, n, ctx.Err()
		}
		return nil, n, fmt.Errorf("%s: %w", path, err)
	}
	return staged, n, nil
}

func (r *Runner) logger() func(format string, v ...any) {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0).Printf
	}
	return r.Logger.Printf
}
