package provider

import (
	"github.com/heartmarshall/wordbook/internal/domain"
)

// Extract builds a WordEntry for spell from markup. The markup alone does not
// always identify the headword, so the caller supplies it.
//
// Extract never fails. The second return value reports whether any field the
// adapter should have found is missing (an ErrExtractionPartial condition).
func Extract(adapter MarkupAdapter, spell string, m Markup) (domain.WordEntry, bool) {
	doc := adapter.Parse(m)

	sym := doc.ExtractSymbols()
	pron := doc.ExtractPronunciationURLs()

	entry := domain.WordEntry{
		Spell:         spell,
		Symbols:       domain.Symbols{EN: sym.EN, US: sym.US},
		Pronunciation: domain.Pronunciation{EN: pron.EN, US: pron.US},
		Explains:      doc.ExtractExplains(),
		Examples:      doc.ExtractExamples(),
	}
	if entry.Explains == nil {
		entry.Explains = []domain.Explain{}
	}

	partial := sym.EN == nil || sym.US == nil || pron.EN == nil || pron.US == nil
	return entry, partial
}
