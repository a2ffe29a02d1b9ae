package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowgate-io/flowgate/pkg/log"
)

func main() {
	logger := log.WithModule("cli")

	command := &cli.Command{
		Name:                  "flowgate",
		Usage:                 "Inspect and exercise workflows from the command line",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			NewValidateCommand(),
			NewNodesCommand(),
			NewSimulateCommand(),
			NewSeedCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
