package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowgate-io/flowgate/pkg/cmd"
	"github.com/flowgate-io/flowgate/pkg/log"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

func NewNodesCommand() *cli.Command {
	return &cli.Command{
		Name:    "nodes",
		Aliases: []string{"n"},
		Usage:   "Print the trigger and module catalogs",
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli").With("action", "nodes")

			reg := cmd.NewRegistry(logger)

			_, _ = fmt.Fprintln(os.Stdout, "Triggers:")
			printCatalog(reg.Triggers())

			_, _ = fmt.Fprintln(os.Stdout, "\nModules:")
			printCatalog(reg.Modules())

			return nil
		},
	}
}

func printCatalog(descriptors []*registry.Descriptor) {
	for _, desc := range descriptors {
		flags := ""
		if desc.Blocking {
			flags += " [blocking]"
		}

		if desc.AllowsFanOut {
			flags += " [fan-out]"
		}

		_, _ = fmt.Fprintf(os.Stdout, "  %-20s %s%s\n", desc.ID, desc.Name, flags)

		if desc.Description != "" {
			_, _ = fmt.Fprintf(os.Stdout, "  %-20s %s\n", "", desc.Description)
		}
	}
}
