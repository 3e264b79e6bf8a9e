// Package phone normalizes Indonesian phone numbers into the digits-only,
// country-prefixed form used as the pending grant key.
package phone

import "strings"

const CountryCode = "62"

// Normalize strips every non-digit and rewrites a leading trunk "0" into the
// country code. An input without digits yields "".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + len(CountryCode))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		return CountryCode + digits[1:]
	}
	return digits
}
