package graphcheck

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

// ConfigIssue is one schema violation in a module node's configuration.
type ConfigIssue struct {
	GraphID int      `json:"graph_id"`
	Kind    string   `json:"kind"`
	Errors  []string `json:"errors"`
}

// CheckConfigurations validates every module node's configuration against
// the JSON schema its kind declares. Advisory, like the path warnings: a
// violation flags the graph to the editor but blocks nothing.
func CheckConfigurations(g *models.Graph, reg *registry.Registry) []ConfigIssue {
	var issues []ConfigIssue

	for _, id := range g.NodeIDs() {
		node := g.Nodes[id]

		if node.IsTrigger() {
			continue
		}

		desc, ok := reg.Resolve(node.Kind)
		if !ok || desc.Schema == nil {
			continue
		}

		config := node.Configuration
		if config == nil {
			config = map[string]any{}
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(desc.Schema),
			gojsonschema.NewGoLoader(config),
		)
		if err != nil {
			issues = append(issues, ConfigIssue{GraphID: id, Kind: node.Kind, Errors: []string{err.Error()}})

			continue
		}

		if result.Valid() {
			continue
		}

		issue := ConfigIssue{GraphID: id, Kind: node.Kind}
		for _, verr := range result.Errors() {
			issue.Errors = append(issue.Errors, verr.String())
		}

		issues = append(issues, issue)
	}

	return issues
}
