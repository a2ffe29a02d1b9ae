package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/flowgate-io/flowgate/pkg/cmd"
	"github.com/flowgate-io/flowgate/pkg/graphcheck"
	"github.com/flowgate-io/flowgate/pkg/log"
)

var ErrInvalidWorkflows = errors.New("invalid workflows found")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Run structural checks over every stored workflow",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli").With("action", "validate")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"), "")
			if err != nil {
				return err
			}
			defer cmd.ClosePersistence(logger, persistence)

			registry := cmd.NewRegistry(logger)

			workflows, err := persistence.Workflows(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch workflows: %w", err)
			}

			logger.Info("Validating workflow graphs", "workflows", len(workflows))

			_, _ = fmt.Fprintln(os.Stdout, "Workflow Graph Validation Results:")
			_, _ = fmt.Fprintln(os.Stdout, "==================================")

			invalid := 0

			for _, workflow := range workflows {
				_, _ = fmt.Fprintf(os.Stdout, "\nWorkflow: %s (%d)\n", workflow.Name, workflow.ID)

				if workflow.Data == nil {
					_, _ = fmt.Fprintln(os.Stdout, "  INVALID: workflow has no graph")
					invalid++

					continue
				}

				result := graphcheck.Check(workflow.Data, registry)

				ok := true

				if !result.Acyclic.IsAcyclic {
					_, _ = fmt.Fprintf(os.Stdout, "  INVALID: graph contains a cycle through nodes %v\n", result.Acyclic.Cycle)
					ok = false
				}

				if result.Arity.HasMultipleOutputConnection {
					_, _ = fmt.Fprintf(os.Stdout, "  INVALID: nodes %v fan out from a single output port\n", result.Arity.Offenders)
					ok = false
				}

				if len(result.UnsupportedModules) > 0 {
					_, _ = fmt.Fprintf(os.Stdout, "  WARNING: unsupported module kinds: %s\n", strings.Join(result.UnsupportedModules, ", "))
				}

				if result.Paths.HasPathWarnings {
					_, _ = fmt.Fprintf(os.Stdout, "  WARNING: unreachable nodes %v, nodes without inputs %v\n",
						result.Paths.Unreachable, result.Paths.MissingInputs)
				}

				for _, issue := range result.ConfigIssues {
					_, _ = fmt.Fprintf(os.Stdout, "  WARNING: node %d (%s) configuration: %s\n",
						issue.GraphID, issue.Kind, strings.Join(issue.Errors, "; "))
				}

				if ok {
					_, _ = fmt.Fprintln(os.Stdout, "  VALID")
				} else {
					invalid++
				}
			}

			_, _ = fmt.Fprintf(os.Stdout, "\nValidation Summary:\n")
			_, _ = fmt.Fprintf(os.Stdout, "  Total workflows: %d\n", len(workflows))
			_, _ = fmt.Fprintf(os.Stdout, "  Invalid workflows: %d\n", invalid)

			if invalid > 0 {
				return fmt.Errorf("%w: %d", ErrInvalidWorkflows, invalid)
			}

			return nil
		},
	}
}
