// Package wire converts between the canonical graph model and the legacy
// node-editor JSON format. The wire shape (string-keyed nodes, "class"
// discriminators, "output_N"/"input_N" port names) is fully contained here;
// the rest of the engine only ever sees models.Graph.
package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/flowgate-io/flowgate/pkg/models"
)

// Node class discriminators used by the editor.
const (
	ClassTrigger = "block-type-trigger"
	ClassModule  = "block-type-module"
)

const framesKey = "_frames"

type wireConnection struct {
	Node   string `json:"node"`
	Output string `json:"output,omitempty"`
	Input  string `json:"input,omitempty"`
}

type wirePort struct {
	Connections []wireConnection `json:"connections"`
}

type wireData struct {
	ID            string         `json:"id"`
	Disabled      bool           `json:"disabled"`
	IndexedParams map[string]any `json:"indexed_params,omitempty"`
	SavedFilters  map[string]any `json:"saved_filters,omitempty"`
}

type wireNode struct {
	ID       int                 `json:"id"`
	Name     string              `json:"name"`
	Data     wireData            `json:"data"`
	Class    string              `json:"class"`
	TypeNode bool                `json:"typenode"`
	Inputs   map[string]wirePort `json:"inputs"`
	Outputs  map[string]wirePort `json:"outputs"`
	PosX     float64             `json:"pos_x"`
	PosY     float64             `json:"pos_y"`
	HTML     string              `json:"html"`
}

// Decode parses legacy editor JSON into a canonical graph. Connection
// references to unknown node ids or malformed port names are rejected with a
// *ValidationError; structural analysis beyond that is graphcheck's job.
func Decode(data []byte) (*models.Graph, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Message: "invalid graph document: " + err.Error()}
	}

	graph := &models.Graph{Nodes: make(map[int]*models.GraphNode)}

	for key, value := range raw {
		if key == framesKey {
			if err := json.Unmarshal(value, &graph.Frames); err != nil {
				return nil, &ValidationError{Message: "invalid frames: " + err.Error()}
			}

			continue
		}

		graphID, err := strconv.Atoi(key)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("node key %q is not an integer id", key)}
		}

		var wn wireNode
		if err := json.Unmarshal(value, &wn); err != nil {
			return nil, &ValidationError{NodeID: graphID, Message: "invalid node: " + err.Error()}
		}

		node, err := decodeNode(graphID, &wn)
		if err != nil {
			return nil, err
		}

		graph.Nodes[graphID] = node
	}

	for id, node := range graph.Nodes {
		if err := checkReferences(graph, id, node); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

func decodeNode(graphID int, wn *wireNode) (*models.GraphNode, error) {
	var kind models.NodeKind

	switch wn.Class {
	case ClassTrigger:
		kind = models.NodeKindTrigger
	case ClassModule:
		kind = models.NodeKindModule
	default:
		return nil, &ValidationError{NodeID: graphID, Message: fmt.Sprintf("unknown node class %q", wn.Class)}
	}

	inputs, err := decodePorts(graphID, wn.Inputs, "input")
	if err != nil {
		return nil, err
	}

	outputs, err := decodePorts(graphID, wn.Outputs, "output")
	if err != nil {
		return nil, err
	}

	return &models.GraphNode{
		GraphID:        graphID,
		Kind:           wn.Data.ID,
		NodeKind:       kind,
		Name:           wn.Name,
		Disabled:       wn.Data.Disabled,
		Inputs:         inputs,
		Outputs:        outputs,
		Configuration:  wn.Data.IndexedParams,
		OnDemandFilter: wn.Data.SavedFilters,
		Appearance: map[string]any{
			"pos_x":    wn.PosX,
			"pos_y":    wn.PosY,
			"html":     wn.HTML,
			"typenode": wn.TypeNode,
		},
	}, nil
}

// decodePorts turns {"output_1": {"connections": [...]}} into the canonical
// port->connections mapping. side is "input" or "output" and names both the
// local port prefix and which peer field carries the remote port name.
func decodePorts(graphID int, ports map[string]wirePort, side string) (map[int][]models.Connection, error) {
	if len(ports) == 0 {
		return nil, nil
	}

	peerPrefix := "output"
	if side == "output" {
		peerPrefix = "input"
	}

	decoded := make(map[int][]models.Connection, len(ports))

	for name, port := range ports {
		portNo, err := parsePortName(name, side)
		if err != nil {
			return nil, &ValidationError{NodeID: graphID, Message: err.Error()}
		}

		conns := make([]models.Connection, 0, len(port.Connections))

		for _, wc := range port.Connections {
			target, err := strconv.Atoi(wc.Node)
			if err != nil {
				return nil, &ValidationError{NodeID: graphID, Message: fmt.Sprintf("connection node %q is not an integer id", wc.Node)}
			}

			peerName := wc.Output
			if side == "input" {
				peerName = wc.Input
			}

			peerPort, err := parsePortName(peerName, peerPrefix)
			if err != nil {
				return nil, &ValidationError{NodeID: graphID, Message: err.Error()}
			}

			conns = append(conns, models.Connection{Node: target, Port: peerPort})
		}

		decoded[portNo] = conns
	}

	return decoded, nil
}

func parsePortName(name, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok {
		return 0, fmt.Errorf("port name %q does not match %s_N", name, prefix)
	}

	port, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("port name %q does not match %s_N", name, prefix)
	}

	return port, nil
}

func checkReferences(g *models.Graph, id int, node *models.GraphNode) error {
	for _, conns := range node.Inputs {
		for _, conn := range conns {
			if _, ok := g.Nodes[conn.Node]; !ok {
				return &ValidationError{NodeID: id, Message: fmt.Sprintf("input connection references unknown node %d", conn.Node)}
			}
		}
	}

	for _, conns := range node.Outputs {
		for _, conn := range conns {
			if _, ok := g.Nodes[conn.Node]; !ok {
				return &ValidationError{NodeID: id, Message: fmt.Sprintf("output connection references unknown node %d", conn.Node)}
			}
		}
	}

	return nil
}

// Encode serializes a canonical graph back into the legacy editor format.
// Decode(Encode(g)) is structurally equal to g.
func Encode(g *models.Graph) ([]byte, error) {
	doc := make(map[string]any, len(g.Nodes)+1)

	for id, node := range g.Nodes {
		doc[strconv.Itoa(id)] = encodeNode(node)
	}

	if len(g.Frames) > 0 {
		doc[framesKey] = g.Frames
	}

	return json.Marshal(doc)
}

func encodeNode(node *models.GraphNode) *wireNode {
	class := ClassModule
	if node.IsTrigger() {
		class = ClassTrigger
	}

	wn := &wireNode{
		ID:    node.GraphID,
		Name:  node.Name,
		Class: class,
		Data: wireData{
			ID:            node.Kind,
			Disabled:      node.Disabled,
			IndexedParams: node.Configuration,
			SavedFilters:  node.OnDemandFilter,
		},
		Inputs:  encodePorts(node.Inputs, "input"),
		Outputs: encodePorts(node.Outputs, "output"),
	}

	if v, ok := node.Appearance["pos_x"].(float64); ok {
		wn.PosX = v
	}

	if v, ok := node.Appearance["pos_y"].(float64); ok {
		wn.PosY = v
	}

	if v, ok := node.Appearance["html"].(string); ok {
		wn.HTML = v
	}

	if v, ok := node.Appearance["typenode"].(bool); ok {
		wn.TypeNode = v
	}

	return wn
}

func encodePorts(ports map[int][]models.Connection, side string) map[string]wirePort {
	encoded := make(map[string]wirePort, len(ports))

	peerPrefix := "output"
	if side == "output" {
		peerPrefix = "input"
	}

	for portNo, conns := range ports {
		wp := wirePort{Connections: make([]wireConnection, 0, len(conns))}

		for _, conn := range conns {
			wc := wireConnection{Node: strconv.Itoa(conn.Node)}
			peerName := fmt.Sprintf("%s_%d", peerPrefix, conn.Port)

			if side == "output" {
				wc.Output = peerName
			} else {
				wc.Input = peerName
			}

			wp.Connections = append(wp.Connections, wc)
		}

		encoded[fmt.Sprintf("%s_%d", side, portNo)] = wp
	}

	return encoded
}
