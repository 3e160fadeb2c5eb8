package book

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits a book into headwords. Tokens are separated by spaces,
// tabs, carriage returns and newlines; empty tokens are dropped.
// Each token is NFC-normalized so "café" typed two ways is one word.
func Tokenize(source string) []string {
	fields := strings.FieldsFunc(source, isSeparator)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, norm.NFC.String(f))
	}
	return out
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
