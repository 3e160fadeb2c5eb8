package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	accountsvc "github.com/heartmarshall/wordbook/internal/service/account"
)

func loadCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "look up every word of a text file and optionally save it",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Aliases: []string{"a"}, Usage: "save the book for `NAME`"},
			&cli.StringFlag{Name: "name", Usage: "book name (default: file name)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("load: exactly one FILE is required", 1)
			}
			path := c.Args().First()

			res, err := e.svcs.Books.LoadFile(c.Context, path)
			if err != nil {
				return err
			}

			printWords(c.App.Writer, res.Words)
			for _, f := range res.Failed {
				fmt.Fprintf(c.App.ErrWriter, "word %d %q: %v\n", f.Index+1, f.Spell, f.Err)
			}
			fmt.Fprintf(c.App.Writer, "\n%d words, %d not found\n", len(res.Words), len(res.Failed))

			account := c.String("account")
			if account == "" {
				return nil
			}

			name := c.String("name")
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if err := e.svcs.Accounts.Update(c.Context, account, accountsvc.KeepProgress(name, res.Words)); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved %q for %s\n", name, account)
			return nil
		},
	}
}
