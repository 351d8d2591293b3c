package transformer

import "strings"

// months maps three-letter month abbreviations to their two-digit numerals.
var months = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// Month converts a month abbreviation like "Dec" to "12".
// Unrecognized tokens are returned as-is.
func Month(mon string) string {
	if n, ok := months[mon]; ok {
		return n
	}
	return mon
}

// Timestamp rewrites "Mon-DD-YY HH:MM:SS" as "20YY-MM-DD HH:MM:SS", which sorts
// chronologically as plain text.
//
// The year is always placed in the 2000s. An unknown month token is kept
// verbatim. Input that does not have a date of at least three '-' separated
// parts followed by a time part is returned trimmed but otherwise unchanged.
func Timestamp(dttm string) string {
	dttm = strings.TrimSpace(dttm)

	date, clock, ok := strings.Cut(dttm, " ")
	if !ok {
		return dttm
	}
	// Only the first token after the date is the time of day.
	clock, _, _ = strings.Cut(clock, " ")

	dt := strings.Split(date, "-")
	if len(dt) < 3 {
		return dttm
	}

	var b strings.Builder
	b.Grow(len(dttm) + 2)
	b.WriteString("20")
	b.WriteString(dt[2])
	b.WriteByte('-')
	b.WriteString(Month(dt[0]))
	b.WriteByte('-')
	b.WriteString(dt[1])
	b.WriteByte(' ')
	b.WriteString(clock)
	return b.String()
}
