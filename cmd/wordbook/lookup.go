package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/heartmarshall/wordbook/internal/domain"
)

func lookupCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "look words up in the online dictionary",
		ArgsUsage: "WORD...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("lookup: at least one word is required", 1)
			}

			words := make(domain.WordList, 0, c.NArg())
			failed := 0
			for _, w := range c.Args().Slice() {
				entry, err := e.svcs.Lookup.Lookup(c.Context, w)
				if err != nil {
					fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", w, err)
					entry = domain.NewPlaceholder(w)
					failed++
				}
				words = append(words, entry)
			}

			printWords(c.App.Writer, words)
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("lookup: %d of %d words failed", failed, len(words)), 1)
			}
			return nil
		},
	}
}
