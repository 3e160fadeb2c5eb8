package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/heartmarshall/wordbook/internal/domain"
	"github.com/heartmarshall/wordbook/internal/service/practice"
)

type sessionManager interface {
	Start(account, book string, words domain.WordList) (practice.Snapshot, error)
	HandleKey(id uuid.UUID, k practice.Key) ([]practice.Outcome, practice.Snapshot, error)
	Finish(id uuid.UUID, commit func(practice.Summary) error) (practice.Summary, error)
}


func practiceCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "practice",
		Usage:     "type each word of a book from its transcription and meaning",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Aliases: []string{"a"}, Usage: "practise the book saved for `NAME` and save it back"},
		},
		Action: func(c *cli.Context) error {
			account := c.String("account")

			var (
				words domain.WordList
				name  string
			)
			switch {
			case c.NArg() == 1:
				res, err := e.svcs.Books.LoadFile(c.Context, c.Args().First())
				if err != nil {
					return err
				}
				path := c.Args().First()
				words, name = res.Words, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			case account != "":
				saved, err := e.svcs.Accounts.Load(c.Context, account)
				if err != nil {
					return fmt.Errorf("load book for %s: %w", account, err)
				}
				words, name = saved.Words, saved.Name
			default:
				return cli.Exit("practice: give a FILE or --account", 1)
			}

			var commit func(practice.Summary) error
			if account != "" {
				commit = func(sum practice.Summary) error {
					return e.svcs.Accounts.Update(c.Context, account, sum.SavedBook)
				}
			}
			_, err := runPractice(c.Context, e.svcs.Practice, account, name, words, commit, c.App.Reader, c.App.Writer)
			return err
		},
	}
}

// runPractice feeds runes from in to a new session until it completes or
// in is exhausted. An uppercase rune is sent as its letter with Shift held.
// commit, if set, stores the summary before the session is closed.
func runPractice(ctx context.Context, m sessionManager, account, book string, words domain.WordList, commit func(practice.Summary) error, in io.Reader, out io.Writer) (practice.Summary, error) {
	snap, err := m.Start(account, book, words)
	if err != nil {
		return practice.Summary{}, err
	}
	printPrompt(out, snap)

	r := bufio.NewReader(in)
	for snap.State != practice.StateSessionComplete {
		if err := ctx.Err(); err != nil {
			break
		}

		ch, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return practice.Summary{}, fmt.Errorf("practice: read key: %w", err)
		}

		key := practice.Key{Rune: ch, Shift: unicode.IsUpper(ch)}
		outcomes, next, err := m.HandleKey(snap.ID, key)
		if err != nil {
			return practice.Summary{}, err
		}
		cursor := snap.Cursor
		snap = next

		for _, o := range outcomes {
			switch o {
			case practice.OutcomeRejected:
				fmt.Fprintf(out, "  %q is wrong: %s\n", ch, spaced(snap.Mask))
			case practice.OutcomeWordCompleted:
				fmt.Fprintf(out, "  %s\n", words[cursor].Spell)
				if snap.State != practice.StateSessionComplete {
					printPrompt(out, snap)
				}
			}
		}
	}

	sum, err := m.Finish(snap.ID, commit)
	if err != nil {
		return practice.Summary{}, err
	}
	printSummary(out, sum)
	return sum, nil
}

func printPrompt(w io.Writer, snap practice.Snapshot) {
	fmt.Fprintf(w, "\n[%d/%d]", snap.Cursor+1, snap.Total)
	if p := snap.Prompt; p != nil {
		if p.Symbols.US != nil {
			fmt.Fprintf(w, " US %s", *p.Symbols.US)
		}
		if p.Symbols.EN != nil {
			fmt.Fprintf(w, " EN %s", *p.Symbols.EN)
		}
		fmt.Fprintln(w)
		for _, x := range p.Explains {
			fmt.Fprintf(w, "  %s %s\n", x.PartOfSpeech, x.Meaning)
		}
	} else {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %s\n", spaced(snap.Mask))
}

func printSummary(w io.Writer, sum practice.Summary) {
	done := 0
	for _, res := range sum.Results {
		if res.Mistakes == 0 && !res.Skipped {
			done++
		}
	}
	fmt.Fprintf(w, "\n%d/%d words without mistakes, %d correct keys, %d wrong, accuracy %.0f%%\n",
		done, len(sum.Results), sum.Stats.Correct, sum.Stats.Incorrect, sum.Stats.Accuracy()*100)
	if sum.State != practice.StateSessionComplete {
		fmt.Fprintf(w, "stopped at word %d of %d\n", sum.Cursor+1, sum.Total)
	}
}

func spaced(mask string) string {
	return strings.Join(strings.Split(mask, ""), " ")
}
