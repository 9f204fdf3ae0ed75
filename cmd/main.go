package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	app := &cli.Command{
		Name:    "setlist",
		Usage:   "Manage Spotify playlists and fill them from the Deezer chart",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   runner.before,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		runner.Close()
		switch {
		case errors.Is(err, shared.ErrMissingCredentials):
			logger.Fatalf("%v: set %s and %s or add them to the config file", err, shared.EnvClientID, shared.EnvClientSecret)
		case errors.Is(err, shared.ErrMissingToken):
			logger.Fatalf("%v: run 'setlist auth login' first", err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
