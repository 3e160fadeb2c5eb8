// Command server runs the wordbook HTTP API.
//
// Configuration comes from CONFIG_PATH (default ./config.yaml) and the
// environment. Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/heartmarshall/wordbook/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
