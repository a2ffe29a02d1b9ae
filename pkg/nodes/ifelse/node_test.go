package ifelse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

func conditionRequest() *protocol.ExecutionRequest {
	graph := &models.Graph{Nodes: map[int]*models.GraphNode{
		2: {
			GraphID:  2,
			Kind:     "if-else",
			NodeKind: models.NodeKindModule,
			Outputs: map[int][]models.Connection{
				PortThen: {{Node: 3, Port: 1}},
				PortElse: {{Node: 4, Port: 1}},
			},
		},
		3: {GraphID: 3, Kind: "stop-execution", NodeKind: models.NodeKindModule},
		4: {GraphID: 4, Kind: "webhook", NodeKind: models.NodeKindModule},
	}}

	return &protocol.ExecutionRequest{Graph: graph, Node: graph.Nodes[2]}
}

func TestExecThenBranch(t *testing.T) {
	node, err := NewIfElseNode(map[string]any{"value": "high", "expected": "high"})
	require.NoError(t, err)

	result, err := node.Exec(context.Background(), conditionRequest())
	require.NoError(t, err)

	require.NotNil(t, result.Matched)
	assert.Equal(t, 3, result.Matched.GraphID)
}

func TestExecElseBranch(t *testing.T) {
	node, err := NewIfElseNode(map[string]any{"value": "low", "expected": "high"})
	require.NoError(t, err)

	result, err := node.Exec(context.Background(), conditionRequest())
	require.NoError(t, err)

	require.NotNil(t, result.Matched)
	assert.Equal(t, 4, result.Matched.GraphID)
}

func TestExecHaltsWhenPortUnconnected(t *testing.T) {
	node, err := NewIfElseNode(map[string]any{"value": "high", "expected": "high"})
	require.NoError(t, err)

	req := conditionRequest()
	delete(req.Node.Outputs, PortThen)

	result, err := node.Exec(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Halt)
	assert.Nil(t, result.Matched)
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name     string
		operator string
		value    string
		expected string
		then     bool
	}{
		{"equals match", "equals", "tlp:red", "tlp:red", true},
		{"equals mismatch", "equals", "tlp:green", "tlp:red", false},
		{"not-equals", "not-equals", "tlp:green", "tlp:red", true},
		{"contains", "contains", "ransomware campaign", "ransomware", true},
		{"contains mismatch", "contains", "campaign", "ransomware", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewIfElseNode(map[string]any{
				"value":    tt.value,
				"operator": tt.operator,
				"expected": tt.expected,
			})
			require.NoError(t, err)

			result, err := node.Exec(context.Background(), conditionRequest())
			require.NoError(t, err)
			require.NotNil(t, result.Matched)

			want := 4
			if tt.then {
				want = 3
			}

			assert.Equal(t, want, result.Matched.GraphID)
		})
	}
}

func TestNewIfElseNodeValidation(t *testing.T) {
	_, err := NewIfElseNode(map[string]any{})
	assert.ErrorContains(t, err, "value")

	_, err = NewIfElseNode(map[string]any{"value": "x", "operator": "regex"})
	assert.ErrorContains(t, err, "unsupported operator")
}
