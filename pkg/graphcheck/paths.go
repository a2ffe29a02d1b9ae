package graphcheck

import (
	"github.com/flowgate-io/flowgate/pkg/models"
)

// PathResult reports advisory connectivity warnings: nodes unreachable from
// the root and module nodes with no incoming connection.
type PathResult struct {
	HasPathWarnings bool  `json:"has_path_warnings"`
	Unreachable     []int `json:"unreachable,omitempty"`
	MissingInputs   []int `json:"missing_inputs,omitempty"`
}

// CheckPaths performs BFS reachability from the root and looks for module
// nodes nothing connects into. Warnings never block saving.
func CheckPaths(g *models.Graph) PathResult {
	result := PathResult{}

	root, err := g.Root()
	if err != nil {
		result.HasPathWarnings = len(g.Nodes) > 0

		return result
	}

	visited := map[int]bool{root.GraphID: true}
	queue := []int{root.GraphID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := g.Node(current)
		if !ok {
			continue
		}

		for _, port := range node.OutputPorts() {
			for _, conn := range node.Outputs[port] {
				if _, exists := g.Nodes[conn.Node]; exists && !visited[conn.Node] {
					visited[conn.Node] = true
					queue = append(queue, conn.Node)
				}
			}
		}
	}

	incoming := make(map[int]int, len(g.Nodes))

	for _, node := range g.Nodes {
		for _, conns := range node.Outputs {
			for _, conn := range conns {
				incoming[conn.Node]++
			}
		}
	}

	for _, id := range g.NodeIDs() {
		node := g.Nodes[id]

		if !visited[id] {
			result.Unreachable = append(result.Unreachable, id)
		}

		if !node.IsTrigger() && incoming[id] == 0 {
			result.MissingInputs = append(result.MissingInputs, id)
		}
	}

	result.HasPathWarnings = len(result.Unreachable) > 0 || len(result.MissingInputs) > 0

	return result
}
