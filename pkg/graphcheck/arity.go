package graphcheck

import (
	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

// ArityResult reports output fan-out violations. Offenders lists the
// graph-local ids of nodes with an over-connected output port.
type ArityResult struct {
	HasMultipleOutputConnection bool  `json:"has_multiple_output_connection"`
	Offenders                   []int `json:"offenders,omitempty"`
}

// CheckOutputArity flags nodes where a single output port fans out to more
// than one connection. Trigger roots and kinds declaring fan-out support are
// exempt; every other kind is single-successor.
func CheckOutputArity(g *models.Graph, reg *registry.Registry) ArityResult {
	result := ArityResult{}

	for _, id := range g.NodeIDs() {
		node := g.Nodes[id]

		if node.IsTrigger() {
			continue
		}

		if desc, ok := reg.Resolve(node.Kind); ok && desc.AllowsFanOut {
			continue
		}

		for _, port := range node.OutputPorts() {
			if len(node.Outputs[port]) > 1 {
				result.HasMultipleOutputConnection = true
				result.Offenders = append(result.Offenders, id)

				break
			}
		}
	}

	return result
}
