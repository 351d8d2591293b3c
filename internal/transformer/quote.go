package transformer

import "strings"

// Escape doubles every double-quote so s can sit inside a quoted field.
func Escape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// Quote escapes s and wraps it in double quotes.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}
