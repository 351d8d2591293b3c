package transformer

import (
	"strings"
	"unicode"
)

// Dollar converts a currency string such as "$3,453.23" into a plain decimal
// numeral ("3453.23") by keeping decimal digits and '.' only.
//
// Edge cases:
//   - "" is returned unchanged (not "0", not NULL).
//   - Input with no digits at all collapses to "" or a run of dots; this is not
//     treated as an error.
func Dollar(money string) string {
	if money == "" {
		return money
	}

	var b strings.Builder
	b.Grow(len(money))
	for _, r := range money {
		if r == '.' || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
