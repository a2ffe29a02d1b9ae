package cmd

import (
	"log/slog"

	"github.com/flowgate-io/flowgate/pkg/registry"
)

// NewRegistry builds the node catalog every binary shares.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes()

	return reg
}
