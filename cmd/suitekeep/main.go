package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fkhayef/suitekeep/internal/app"
	"github.com/fkhayef/suitekeep/internal/command"
	"github.com/fkhayef/suitekeep/internal/config"
	"github.com/fkhayef/suitekeep/internal/logging"
	"github.com/fkhayef/suitekeep/internal/membership"
)

const usage = `usage: suitekeep [-config path] <subcommand> [args]

subcommands:
  open <url>         handle an opened link (invitation links ask to join)
  run <command>...   run app commands, e.g. syncNowRequested
  listen             run commands read from stdin, one per line
  commands           list app commands
`

func main() {
	configPath := flag.String("config", config.DefaultClientPath(), "path to the client config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "suitekeep:", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing subcommand")
	}

	if args[0] == "commands" {
		for _, c := range command.All() {
			fmt.Println(c)
		}
		return nil
	}

	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, logging.FormatConsole)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := membership.NewClient(cfg.APIURL, cfg.AccountID, cfg.Timeout.Duration)
	a := app.New(client, cfg.SuiteID, os.Stdin, os.Stdout, logger)

	switch args[0] {
	case "open":
		if len(args) != 2 {
			return errors.New("open takes exactly one url")
		}
		err := a.Open(ctx, args[1])
		if errors.Is(err, app.ErrNotInvitation) {
			logger.Debug().Str("url", args[1]).Msg("ignored link")
			return nil
		}
		return err
	case "run":
		if len(args) < 2 {
			return errors.New("run needs at least one command")
		}
		for _, name := range args[1:] {
			if err := a.Run(ctx, name); err != nil {
				return err
			}
		}
		return nil
	case "listen":
		return a.Listen(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}
