package domain

import "slices"

// Symbols holds phonetic transcriptions. A nil field means the dictionary had none.
type Symbols struct {
	EN *string `json:"en"`
	US *string `json:"us"`
}

// Pronunciation holds audio URLs for each accent.
type Pronunciation struct {
	EN *string `json:"en"`
	US *string `json:"us"`
}

// Explain is one (part of speech, meaning) pair.
type Explain struct {
	PartOfSpeech string `json:"pos"`
	Meaning      string `json:"meaning"`
}

// Example is a usage sentence with its translation.
type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation,omitempty"`
}

// WordEntry is one dictionary result. It is built once by the extractor and
// never mutated afterwards; pass it by value.
type WordEntry struct {
	Spell         string        `json:"spell"`
	Symbols       Symbols       `json:"symbols"`
	Pronunciation Pronunciation `json:"pronunciation"`
	Explains      []Explain     `json:"explains"`
	Examples      []Example     `json:"examples,omitempty"`

	// Placeholder marks an entry recorded for a word whose lookup failed.
	// Only Spell is meaningful.
	Placeholder bool `json:"placeholder,omitempty"`
}

// NewPlaceholder returns the entry recorded for a word that could not be looked up.
func NewPlaceholder(spell string) WordEntry {
	return WordEntry{Spell: spell, Explains: []Explain{}, Placeholder: true}
}

// WordList is an ordered sequence of entries in book order.
type WordList []WordEntry

// Spells returns the headwords in order.
func (l WordList) Spells() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Spell
	}
	return out
}

// SavedBook is what the account store keeps for one account.
type SavedBook struct {
	Name     string         `json:"name"`
	Words    WordList       `json:"words"`
	Progress []WordProgress `json:"progress,omitempty"`
}

// WordProgress is an account's practice record for one headword. Streak
// counts consecutive clean runs and resets on any mistake.
type WordProgress struct {
	Spell  string `json:"spell"`
	Right  int    `json:"right"`
	Wrong  int    `json:"wrong"`
	Streak int    `json:"streak"`
}

// Record adds one practice run of spell to the book's progress. A clean
// run is one typed without mistakes.
func (b *SavedBook) Record(spell string, clean bool) {
	i := slices.IndexFunc(b.Progress, func(p WordProgress) bool { return p.Spell == spell })
	if i < 0 {
		b.Progress = append(b.Progress, WordProgress{Spell: spell})
		i = len(b.Progress) - 1
	}
	p := &b.Progress[i]
	if clean {
		p.Right++
		p.Streak++
		return
	}
	p.Wrong++
	p.Streak = 0
}

// ProgressFor returns the record for spell, if any.
func (b SavedBook) ProgressFor(spell string) (WordProgress, bool) {
	i := slices.IndexFunc(b.Progress, func(p WordProgress) bool { return p.Spell == spell })
	if i < 0 {
		return WordProgress{}, false
	}
	return b.Progress[i], true
}
