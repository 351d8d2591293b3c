package relation

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed destination file names.
const (
	ItemFile     = "Item.dat"
	CategoryFile = "Categories.dat"
	BelongFile   = "belong.dat"
)

// Flush writes every accumulator of s to its destination file in dir, one
// newline-terminated row per line, in accumulator order.
//
// Files are truncated if they exist. Each file is closed before the next one
// is opened, including on error; the first error stops the flush.
func (s *Set) Flush(dir string) error {
	targets := []struct {
		name string
		rows []string
	}{
		{ItemFile, s.Items.Rows()},
		{CategoryFile, s.Categories.Rows()},
		{BelongFile, s.Belongs.Rows()},
	}
	for _, t := range targets {
		if err := writeLines(filepath.Join(dir, t.name), t.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(path string, rows []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("flush: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("flush: close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriterSize(f, 64<<10)
	for _, r := range rows {
		if _, err := w.WriteString(r); err != nil {
			return fmt.Errorf("flush: write %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("flush: write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: write %s: %w", path, err)
	}
	return nil
}
