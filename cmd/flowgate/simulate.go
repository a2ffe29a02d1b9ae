package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowgate-io/flowgate/pkg/cmd"
	"github.com/flowgate-io/flowgate/pkg/log"
	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/workflow"
)

func NewSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:    "simulate",
		Aliases: []string{"s"},
		Usage:   "Fire a trigger against a JSON scope file and print the outcome",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "trigger",
				Usage:    "Trigger id to fire",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "scope-file",
				Usage: "Path to a JSON file holding the trigger scope",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli").With("action", "simulate")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"), "")
			if err != nil {
				return err
			}
			defer cmd.ClosePersistence(logger, store)

			registry := cmd.NewRegistry(logger)

			scope := map[string]any{}

			if path := command.String("scope-file"); path != "" {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read scope file: %w", err)
				}

				if err := json.Unmarshal(raw, &scope); err != nil {
					return fmt.Errorf("failed to parse scope file: %w", err)
				}
			}

			// Module side effects run on the store's handle when one exists.
			// The file store has none, so database-backed modules report a
			// failure instead of writing anywhere.
			var tx persistence.DBTX
			if db, ok := store.(interface{ DB() *sql.DB }); ok {
				tx = db.DB()
			}

			executor := workflow.NewExecutor(store, registry, logger)

			outcome, err := executor.Execute(ctx, command.String("trigger"), scope, tx)
			if err != nil {
				return fmt.Errorf("execution failed: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", outcome.Status)

			for _, message := range outcome.Messages {
				_, _ = fmt.Fprintf(os.Stdout, "  %s\n", message)
			}

			if outcome.Blocking() {
				_, _ = fmt.Fprintln(os.Stdout, "The gated action would be BLOCKED.")
			} else {
				_, _ = fmt.Fprintln(os.Stdout, "The gated action would PROCEED.")
			}

			return nil
		},
	}
}
