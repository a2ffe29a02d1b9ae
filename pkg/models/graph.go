// Package models defines the core domain models for trigger-bound workflow graphs.
package models

import (
	"errors"
	"sort"
)

// NodeKind separates trigger roots from business-logic modules.
type NodeKind string

const (
	NodeKindTrigger NodeKind = "trigger"
	NodeKindModule  NodeKind = "module"
)

// Connection is one directed edge endpoint, stored as a value tuple so the
// graph arena carries no object pointers between nodes.
type Connection struct {
	Node int `json:"node"` // graph-local id of the peer node
	Port int `json:"port"` // port number on the peer node
}

// GraphNode is a single node inside a workflow graph. Kind is the registry
// identifier ("event-publish", "stop-execution", ...), GraphID the id local
// to the owning graph.
type GraphNode struct {
	GraphID        int                  `json:"graph_id"`
	Kind           string               `json:"kind"`
	NodeKind       NodeKind             `json:"node_kind"`
	Name           string               `json:"name"`
	Disabled       bool                 `json:"disabled"`
	Inputs         map[int][]Connection `json:"inputs,omitempty"`
	Outputs        map[int][]Connection `json:"outputs,omitempty"`
	Configuration  map[string]any       `json:"configuration,omitempty"`
	OnDemandFilter map[string]any       `json:"on_demand_filter,omitempty"`

	// Appearance is editor metadata (pos_x, pos_y, html, typenode). It is
	// carried through storage untouched and never interpreted here.
	Appearance map[string]any `json:"appearance,omitempty"`
}

// IsTrigger reports whether the node is a trigger root.
func (n *GraphNode) IsTrigger() bool {
	return n.NodeKind == NodeKindTrigger
}

// OutputPorts returns the node's connected output port numbers in ascending
// order. Traversal follows this order, which keeps runs reproducible.
func (n *GraphNode) OutputPorts() []int {
	ports := make([]int, 0, len(n.Outputs))
	for port := range n.Outputs {
		ports = append(ports, port)
	}

	sort.Ints(ports)

	return ports
}

// Frame is a visual grouping rectangle from the node editor. Pure
// passthrough metadata.
type Frame struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
	Nodes []int  `json:"nodes"`
}

// Graph is the canonical in-memory workflow graph: a flat arena of nodes
// keyed by graph-local id plus editor frames.
type Graph struct {
	Nodes  map[int]*GraphNode `json:"nodes"`
	Frames map[string]Frame   `json:"frames,omitempty"`
}

// Graph shape errors.
var (
	ErrNoRoot       = errors.New("graph has no trigger node")
	ErrMultipleRoot = errors.New("graph has more than one trigger node")
)

// Node resolves a node from the arena.
func (g *Graph) Node(id int) (*GraphNode, bool) {
	node, ok := g.Nodes[id]

	return node, ok
}

// Root returns the single trigger node of the graph.
func (g *Graph) Root() (*GraphNode, error) {
	var root *GraphNode

	for _, node := range g.Nodes {
		if !node.IsTrigger() {
			continue
		}

		if root != nil {
			return nil, ErrMultipleRoot
		}

		root = node
	}

	if root == nil {
		return nil, ErrNoRoot
	}

	return root, nil
}

// NodeIDs returns all graph-local ids in ascending order.
func (g *Graph) NodeIDs() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}
