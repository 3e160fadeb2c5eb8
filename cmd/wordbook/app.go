package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/heartmarshall/wordbook/internal/app"
	"github.com/heartmarshall/wordbook/internal/config"
)

// env is what Before builds for the subcommands.
type env struct {
	svcs  *app.Services
	close func()
	log   *slog.Logger
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	e := &env{close: func() {}}

	return &cli.App{
		Name:      "wordbook",
		Usage:     "look up words, load books, practise spelling",
		Version:   app.BuildVersion(),
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read configuration from `FILE`",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c.Context, c.String("config"), c.Bool("verbose"), c.App.ErrWriter)
		},
		After: func(*cli.Context) error {
			e.close()
			return nil
		},
		Commands: []*cli.Command{
			lookupCommand(e),
			loadCommand(e),
			practiceCommand(e),
		},
	}
}

func (e *env) setup(ctx context.Context, configPath string, verbose bool, logOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Keep the terminal quiet unless asked.
	logCfg := config.LogConfig{Level: "warn", Format: "text"}
	if verbose {
		logCfg.Level = "debug"
	}
	e.log = app.NewLogger(logCfg, logOut)

	svcs, closeFn, err := app.Build(ctx, cfg, e.log)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	e.svcs, e.close = svcs, closeFn
	return nil
}
