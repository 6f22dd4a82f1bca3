package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// Fall back to the token stored by `tapedeck auth login` when the
	// config file doesn't carry one.
	if config.API.AccessToken == "" {
		if path, err := authTokenPath(); err == nil {
			if token, err := os.ReadFile(path); err == nil {
				config.API.AccessToken = string(token)
			}
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "tapedeck",
		Usage:    "Create and edit mixtapes from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
