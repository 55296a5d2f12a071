// Command apidocs indexes a WoW API annotation corpus and answers queries
// about it from the command line or as an MCP server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jonwraymond/apidocs/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "apidocs: %s\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "apidocs",
		Usage:     "index and query the WoW API annotation corpus",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Usage:   "corpus root directory",
				EnvVars: []string{config.EnvRoot, config.EnvLegacyRoot},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"APIDOCS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored log output",
			},
		},
		Before: func(c *cli.Context) error {
			logger, err := newLogger(c.App.ErrWriter, c.String("log-level"), c.Bool("no-color"))
			if err != nil {
				return err
			}
			c.Context = withLogger(c.Context, logger)
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			queryCommand(),
			statsCommand(),
			toolsCommand(),
			callCommand(),
		},
	}
}
