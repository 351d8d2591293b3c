// Package relation holds the run-wide accumulators that collect rendered
// rows for the three destination tables, and their one-time flush to disk.
//
// Rows are stored fully rendered (fields joined by Sep, free text quoted, no
// trailing newline). Nothing here is package-level state: a run owns a *Set.
package relation

// Sep separates fields within a rendered row.
const Sep = "|"

// Lines is an append-only ordered sequence of rendered rows.
type Lines struct {
	rows []string
}

// Append adds row at the end.
func (l *Lines) Append(row string) { l.rows = append(l.rows, row) }

// Len returns the number of rows.
func (l *Lines) Len() int { return len(l.rows) }

// Rows returns the rows in insertion order. The slice must not be modified.
func (l *Lines) Rows() []string { return l.rows }

// OrderedSet is an ordered sequence of rendered rows that keeps only the
// first occurrence of each exact row value.
//
// Membership is map-backed, so Add is O(1) regardless of how many rows have
// already been accumulated.
type OrderedSet struct {
	rows []string
	seen map[string]struct{}
}

// Add appends row unless an identical row is already present.
// It reports whether the row was new.
func (s *OrderedSet) Add(row string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[row]; dup {
		return false
	}
	s.seen[row] = struct{}{}
	s.rows = append(s.rows, row)
	return true
}

// Contains reports whether row has been added.
func (s *OrderedSet) Contains(row string) bool {
	_, ok := s.seen[row]
	return ok
}

// Len returns the number of distinct rows.
func (s *OrderedSet) Len() int { return len(s.rows) }

// Rows returns the distinct rows in first-seen order. The slice must not be
// modified.
func (s *OrderedSet) Rows() []string { return s.rows }

// Set groups the accumulators of one extract run.
type Set struct {
	Items      Lines
	Categories OrderedSet
	Belongs    Lines
}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{} }

// Counts is a row count snapshot of a Set.
type Counts struct {
	Items      int
	Categories int
	Belongs    int
}

// Counts returns the current row counts.
func (s *Set) Counts() Counts {
	return Counts{
		Items:      s.Items.Len(),
		Categories: s.Categories.Len(),
		Belongs:    s.Belongs.Len(),
	}
}

// Merge appends other's rows after s's rows, preserving other's order.
// Categories already present in s are not repeated.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, r := range other.Items.Rows() {
		s.Items.Append(r)
	}
	for _, r := range other.Categories.Rows() {
		s.Categories.Add(r)
	}
	for _, r := range other.Belongs.Rows() {
		s.Belongs.Append(r)
	}
}
