package graphcheck

import (
	"sort"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

// CheckSupportedModules returns the sorted, de-duplicated kind ids present
// in the graph but absent from the registry. A non-empty result does not
// prevent saving (the platform may be mid-upgrade) but blocks execution.
func CheckSupportedModules(g *models.Graph, reg *registry.Registry) []string {
	seen := make(map[string]bool)

	var unsupported []string

	for _, id := range g.NodeIDs() {
		kind := g.Nodes[id].Kind

		if seen[kind] {
			continue
		}

		seen[kind] = true

		if _, ok := reg.Resolve(kind); !ok {
			unsupported = append(unsupported, kind)
		}
	}

	sort.Strings(unsupported)

	return unsupported
}
