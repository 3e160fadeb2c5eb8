// Package provider defines the contracts between the lookup pipeline and a
// concrete dictionary site. Everything that knows about a site's HTML lives
// behind these interfaces.
package provider

import (
	"github.com/heartmarshall/wordbook/internal/domain"
)

// Markup is the raw HTML body returned by the dictionary service.
type Markup []byte

// Symbols are the phonetic transcriptions found in the markup.
type Symbols struct {
	EN *string
	US *string
}

// Pronunciations are the audio URLs found in the markup.
type Pronunciations struct {
	EN *string
	US *string
}

// MarkupAdapter turns one site's markup into a queryable Document.
type MarkupAdapter interface {
	Parse(m Markup) Document
}

// Document extracts fields from parsed markup. Implementations never fail:
// fields that cannot be located come back nil or empty.
type Document interface {
	ExtractSymbols() Symbols
	ExtractPronunciationURLs() Pronunciations
	ExtractExplains() []domain.Explain
	ExtractExamples() []domain.Example
}
