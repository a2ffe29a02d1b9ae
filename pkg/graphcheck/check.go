package graphcheck

import (
	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

// Result bundles every structural check for the authoring API's check-graph
// operation. Only a failed acyclicity check is a hard save gate; the rest is
// advisory or execution-gating.
type Result struct {
	Acyclic            AcyclicResult `json:"acyclic"`
	Arity              ArityResult   `json:"arity"`
	Paths              PathResult    `json:"paths"`
	UnsupportedModules []string      `json:"unsupported_modules"`
	ConfigIssues       []ConfigIssue `json:"config_issues,omitempty"`
}

// Executable reports whether the engine would run this graph.
func (r *Result) Executable() bool {
	return len(r.UnsupportedModules) == 0
}

// Check runs all structural checks.
func Check(g *models.Graph, reg *registry.Registry) *Result {
	return &Result{
		Acyclic:            CheckAcyclic(g),
		Arity:              CheckOutputArity(g, reg),
		Paths:              CheckPaths(g),
		UnsupportedModules: CheckSupportedModules(g, reg),
		ConfigIssues:       CheckConfigurations(g, reg),
	}
}
