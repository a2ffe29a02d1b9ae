// Package graphcheck implements the structural checks run against a workflow
// graph before it is saved or executed. Every check is a pure function of
// the graph (and, where kind capabilities matter, the registry): no
// mutation, no persistence, identical results on repeated runs.
package graphcheck

import (
	"github.com/flowgate-io/flowgate/pkg/models"
)

// AcyclicResult reports cycle detection. Cycle holds the graph-local ids on
// the offending path when one is found.
type AcyclicResult struct {
	IsAcyclic bool  `json:"is_acyclic"`
	Cycle     []int `json:"cycle,omitempty"`
}

// CheckAcyclic runs DFS-based cycle detection from the root, following
// output connections. Any back-edge to an ancestor, including a self-loop,
// fails the check. A false result is a hard save-time error.
func CheckAcyclic(g *models.Graph) AcyclicResult {
	root, err := g.Root()
	if err != nil {
		// Without a root there is nothing to walk; rootlessness is flagged
		// elsewhere.
		return AcyclicResult{IsAcyclic: true}
	}

	const (
		unvisited = 0
		onPath    = 1
		done      = 2
	)

	state := make(map[int]int, len(g.Nodes))
	path := make([]int, 0, len(g.Nodes))

	var walk func(id int) []int

	walk = func(id int) []int {
		state[id] = onPath
		path = append(path, id)

		node, ok := g.Node(id)
		if ok {
			for _, port := range node.OutputPorts() {
				for _, conn := range node.Outputs[port] {
					if _, exists := g.Nodes[conn.Node]; !exists {
						continue
					}

					switch state[conn.Node] {
					case onPath:
						return append(append([]int{}, path...), conn.Node)
					case unvisited:
						if cycle := walk(conn.Node); cycle != nil {
							return cycle
						}
					}
				}
			}
		}

		state[id] = done
		path = path[:len(path)-1]

		return nil
	}

	if cycle := walk(root.GraphID); cycle != nil {
		return AcyclicResult{IsAcyclic: false, Cycle: cycle}
	}

	return AcyclicResult{IsAcyclic: true}
}
