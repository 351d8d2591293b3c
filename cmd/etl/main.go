// Command etl converts auction listing JSON documents into three
// '|'-delimited extracts for bulk loading:
//
//	Item.dat        one row per listing
//	Categories.dat  one row per distinct category label
//	belong.dat      one row per listing/category membership
//
// Usage:
//
//	etl [flags] items-0.json items-1.json ...
//
// Paths not ending in .json are ignored. The extracts are written to the
// working directory once every input has been processed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"auctionetl/internal/metrics"
	"auctionetl/internal/metrics/datadog"
	"auctionetl/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr, ".")
	stop()
	os.Exit(code)
}

// run is split out from main so the command can be tested in-process.
//
// It returns a Unix-style exit code:
//   - 0 for success
//   - 2 for usage errors
//   - 1 for runtime errors, including files skipped under -keep-going
func run(ctx context.Context, args []string, stderr io.Writer, outDir string) int {
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: etl [flags] <file.json> [file.json ...]\n")
		fs.PrintDefaults()
	}

	verbose := fs.Bool("v", false, "enable verbose logs")
	keepGoing := fs.Bool("keep-going", false, "skip files that fail instead of aborting the run")
	backendName := fs.String("metrics-backend", "none", "metrics backend (none, datadog)")
	tagsCSV := fs.String("metrics-tags", "", "extra comma-separated Datadog tags (e.g. team:data,service:etl)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if *backendName != "none" && *backendName != "datadog" {
		fmt.Fprintf(stderr, "unknown -metrics-backend %q\n", *backendName)
		return 2
	}

	runID := uuid.NewString()
	logger := log.New(stderr, "run="+runID[:8]+" ", log.LstdFlags)

	if *backendName == "datadog" {
		b, err := datadog.NewBackend(ctx, datadog.Options{
			RunID:      runID,
			Tags:       datadog.ParseTagsCSV(*tagsCSV),
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			logger.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				metrics.SetBackend(nil)
				if err := b.Close(); err != nil {
					logger.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	}

	r := &pipeline.Runner{KeepGoing: *keepGoing}
	if *verbose {
		r.Logger = logger
	}

	start := time.Now()
	set, sum, err := r.Run(ctx, fs.Args())
	if err != nil {
		logger.Printf("etl: %v", err)
		return 1
	}

	if err := set.Flush(outDir); err != nil {
		logger.Printf("etl: %v", err)
		return 1
	}

	if *verbose {
		logger.Printf("stage=flush dir=%s items=%d categories=%d belongs=%d duration=%s",
			outDir, sum.Counts.Items, sum.Counts.Categories, sum.Counts.Belongs,
			time.Since(start).Truncate(time.Millisecond))
	}

	if sum.Failed > 0 {
		for _, f := range sum.Files {
			if f.Err != nil {
				logger.Printf("etl: skipped %v", f.Err)
			}
		}
		logger.Printf("etl: %d of %d files skipped", sum.Failed, len(sum.Files))
		return 1
	}
	return 0
}
