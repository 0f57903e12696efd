package util

import "strings"

const EmptyString = ""

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == EmptyString
}

// Mask hides all but the first and last rune of a secret for logging.
func Mask(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}

	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}
