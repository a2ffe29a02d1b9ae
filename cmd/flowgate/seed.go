package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowgate-io/flowgate/pkg/cmd"
	"github.com/flowgate-io/flowgate/pkg/config"
	"github.com/flowgate-io/flowgate/pkg/log"
	"github.com/flowgate-io/flowgate/pkg/services"
)

func NewSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load settings and workflows from a YAML seed file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the seed YAML file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli").With("action", "seed")

			seed, err := config.LoadSeed(command.String("file"))
			if err != nil {
				return err
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"), "")
			if err != nil {
				return err
			}
			defer cmd.ClosePersistence(logger, persistence)

			reg := cmd.NewRegistry(logger)
			workflowService := services.NewWorkflow(persistence, reg)

			for key, value := range seed.Settings {
				if err := persistence.SaveSetting(ctx, key, value); err != nil {
					return fmt.Errorf("failed to seed setting %s: %w", key, err)
				}
			}

			for _, workflow := range seed.Workflows {
				saved, err := workflowService.SaveWorkflow(ctx, workflow)
				if err != nil {
					return fmt.Errorf("failed to seed workflow %q: %w", workflow.Name, err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Seeded workflow %q (%d) bound to trigger %s\n",
					saved.Name, saved.ID, saved.TriggerID)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Seeded %d settings and %d workflows\n",
				len(seed.Settings), len(seed.Workflows))

			return nil
		},
	}
}
