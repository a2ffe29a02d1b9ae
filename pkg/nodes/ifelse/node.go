package ifelse

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Output ports of the condition node.
const (
	PortThen = 1
	PortElse = 2
)

// IfElseNode routes the branch to the then- or else-output. The engine
// receives the chosen target via ExecResult.Matched; a chosen port without a
// connection halts the branch.
type IfElseNode struct {
	value    string
	operator string
	expected string
}

// NewIfElseNode creates an if-else node from its configuration.
func NewIfElseNode(config map[string]any) (*IfElseNode, error) {
	value, ok := config["value"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'value'")
	}

	operator := "equals"
	if op, ok := config["operator"].(string); ok && op != "" {
		operator = op
	}

	switch operator {
	case "equals", "not-equals", "contains":
	default:
		return nil, fmt.Errorf("unsupported operator %q", operator)
	}

	expected, _ := config["expected"].(string)

	return &IfElseNode{value: value, operator: operator, expected: expected}, nil
}

// ID returns the node kind id.
func (n *IfElseNode) ID() string {
	return "if-else"
}

// Exec evaluates the comparison and picks the branch.
func (n *IfElseNode) Exec(_ context.Context, req *protocol.ExecutionRequest) (protocol.ExecResult, error) {
	port := PortElse
	if n.matches() {
		port = PortThen
	}

	connections := req.Node.Outputs[port]
	if len(connections) == 0 {
		return protocol.ExecResult{Status: models.ExecSuccess, Halt: true}, nil
	}

	target, ok := req.Graph.Node(connections[0].Node)
	if !ok {
		return protocol.ExecResult{Status: models.ExecFailure},
			fmt.Errorf("if-else output %d references unknown node %d", port, connections[0].Node)
	}

	return protocol.ExecResult{Status: models.ExecSuccess, Matched: target}, nil
}

func (n *IfElseNode) matches() bool {
	switch n.operator {
	case "not-equals":
		return n.value != n.expected
	case "contains":
		return strings.Contains(n.value, n.expected)
	default:
		return n.value == n.expected
	}
}
