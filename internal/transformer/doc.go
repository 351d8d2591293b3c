// Package transformer holds the field-level normalizers applied to listing
// values before they are rendered into delimited rows.
//
// All normalizers are pure and permissive: malformed input degrades to a
// best-effort passthrough instead of an error, so a single odd field never
// aborts a bulk extract.
package transformer
