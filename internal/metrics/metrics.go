// Package metrics is the backend-agnostic metrics facade used by the extract
// pipeline. The default backend discards everything; commands install a real
// backend with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names recorded by the pipeline.
const (
	FilesTotal          = "auction_etl_files_total"           // labels: status
	ListingsTotal       = "auction_etl_listings_total"        // no labels
	RowsTotal           = "auction_etl_rows_total"            // labels: table
	FileDurationSeconds = "auction_etl_file_duration_seconds" // labels: status
)

// Labels are metric dimensions (rendered as tags by backends that use them).
type Labels map[string]string

// Backend receives metric observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Flusher is implemented by backends that buffer observations.
type Flusher interface {
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the process backend. A nil b restores the no-op
// backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// IncCounter adds delta to a counter.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records one sample.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// ObserveDuration records the time elapsed since start, in seconds.
func ObserveDuration(name string, start time.Time, labels Labels) {
	ObserveHistogram(name, time.Since(start).Seconds(), labels)
}

// Flush flushes the current backend if it buffers.
func Flush() error {
	if f, ok := current().(Flusher); ok {
		return f.Flush()
	}
	return nil
}
