package domain

import "strings"

// NormalizeAccount folds an account name to the key it is stored under:
// case is ignored and any run of whitespace (tabs and newlines included)
// counts as one space. Headwords never pass through here; they stay
// case-sensitive.
func NormalizeAccount(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
