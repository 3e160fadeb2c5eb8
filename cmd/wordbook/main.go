// Command wordbook is the terminal front end: look words up, load a book
// from a text file, and practise spelling it.
//
//	wordbook lookup police office
//	wordbook load --account alice words.txt
//	wordbook practice --account alice
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "wordbook:", err)
		os.Exit(1)
	}
}
