package main

import (
	"io"
	"strings"

	"github.com/rodaine/table"

	"github.com/heartmarshall/wordbook/internal/domain"
)

// printWords writes one row per entry. Placeholders show as "(not found)".
func printWords(w io.Writer, words domain.WordList) {
	tbl := table.New("#", "Word", "EN", "US", "Meaning").WithWriter(w)
	for i, e := range words {
		meaning := "(not found)"
		if !e.Placeholder {
			meaning = explainLine(e.Explains)
		}
		tbl.AddRow(i+1, e.Spell, orDash(e.Symbols.EN), orDash(e.Symbols.US), meaning)
	}
	tbl.Print()
}

func explainLine(explains []domain.Explain) string {
	parts := make([]string, 0, len(explains))
	for _, x := range explains {
		parts = append(parts, strings.TrimSpace(x.PartOfSpeech+" "+x.Meaning))
	}
	return strings.Join(parts, "; ")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
