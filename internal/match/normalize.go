package match

import "strings"

// Normalize collapses all whitespace runs to a single space and trims the
// ends. Casing is preserved so matched substrings can be reported as they
// appear in the source; matching itself lowercases separately.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
