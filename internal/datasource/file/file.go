// Package file selects and opens listing input files.
package file

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Ext is the only input file suffix that is processed.
const Ext = ".json"

// IsInput reports whether path names an input file: it must end in Ext and
// be longer than the suffix alone.
func IsInput(path string) bool {
	return len(path) > len(Ext) && strings.HasSuffix(path, Ext)
}

// Select returns the input paths of paths, keeping their order.
func Select(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsInput(p) {
			out = append(out, p)
		}
	}
	return out
}

// Open opens path for reading. A leading UTF-8 byte order mark is removed so
// the JSON decoder sees the document from its first token.
//
// The caller must Close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &readCloser{
		Reader: transform.NewReader(f, dec),
		f:      f,
	}, nil
}

type readCloser struct {
	io.Reader
	f *os.File
}

func (r *readCloser) Close() error { return r.f.Close() }
