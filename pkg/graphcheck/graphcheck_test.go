package graphcheck

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	return reg
}

func linearGraph() *models.Graph {
	return &models.Graph{Nodes: map[int]*models.GraphNode{
		1: {
			GraphID:  1,
			Kind:     registry.TriggerEventPublish,
			NodeKind: models.NodeKindTrigger,
			Outputs:  map[int][]models.Connection{1: {{Node: 2, Port: 1}}},
		},
		2: {
			GraphID:  2,
			Kind:     "stop-execution",
			NodeKind: models.NodeKindModule,
			Inputs:   map[int][]models.Connection{1: {{Node: 1, Port: 1}}},
		},
	}}
}

func TestCheckAcyclic(t *testing.T) {
	result := CheckAcyclic(linearGraph())

	assert.True(t, result.IsAcyclic)
	assert.Empty(t, result.Cycle)
}

func TestCheckAcyclicDetectsCycle(t *testing.T) {
	graph := linearGraph()
	graph.Nodes[3] = &models.GraphNode{
		GraphID:  3,
		Kind:     "webhook",
		NodeKind: models.NodeKindModule,
		Outputs:  map[int][]models.Connection{1: {{Node: 2, Port: 1}}},
	}
	graph.Nodes[2].Outputs = map[int][]models.Connection{1: {{Node: 3, Port: 1}}}

	result := CheckAcyclic(graph)

	require.False(t, result.IsAcyclic)
	assert.Equal(t, []int{1, 2, 3, 2}, result.Cycle)
}

func TestCheckAcyclicSelfLoop(t *testing.T) {
	graph := linearGraph()
	graph.Nodes[2].Outputs = map[int][]models.Connection{1: {{Node: 2, Port: 1}}}

	result := CheckAcyclic(graph)

	require.False(t, result.IsAcyclic)
	assert.Equal(t, []int{1, 2, 2}, result.Cycle)
}

func TestCheckAcyclicIsIdempotent(t *testing.T) {
	graph := linearGraph()

	first := CheckAcyclic(graph)
	second := CheckAcyclic(graph)

	assert.Equal(t, first, second)
}

func TestCheckOutputArity(t *testing.T) {
	reg := testRegistry(t)

	graph := linearGraph()
	graph.Nodes[3] = &models.GraphNode{GraphID: 3, Kind: "webhook", NodeKind: models.NodeKindModule}
	graph.Nodes[4] = &models.GraphNode{GraphID: 4, Kind: "webhook", NodeKind: models.NodeKindModule}
	graph.Nodes[2].Outputs = map[int][]models.Connection{
		1: {{Node: 3, Port: 1}, {Node: 4, Port: 1}},
	}

	result := CheckOutputArity(graph, reg)

	assert.True(t, result.HasMultipleOutputConnection)
	assert.Equal(t, []int{2}, result.Offenders)
}

func TestCheckOutputArityFanOutExemptions(t *testing.T) {
	reg := testRegistry(t)

	graph := linearGraph()

	// The trigger root fans out to two branches.
	graph.Nodes[3] = &models.GraphNode{GraphID: 3, Kind: "parallel-task", NodeKind: models.NodeKindModule}
	graph.Nodes[4] = &models.GraphNode{GraphID: 4, Kind: "webhook", NodeKind: models.NodeKindModule}
	graph.Nodes[5] = &models.GraphNode{GraphID: 5, Kind: "webhook", NodeKind: models.NodeKindModule}
	graph.Nodes[1].Outputs = map[int][]models.Connection{
		1: {{Node: 2, Port: 1}, {Node: 3, Port: 1}},
	}

	// A fan-out capable module kind fans out as well.
	graph.Nodes[3].Outputs = map[int][]models.Connection{
		1: {{Node: 4, Port: 1}, {Node: 5, Port: 1}},
	}

	result := CheckOutputArity(graph, reg)

	assert.False(t, result.HasMultipleOutputConnection)
	assert.Empty(t, result.Offenders)
}

func TestCheckPaths(t *testing.T) {
	graph := linearGraph()
	graph.Nodes[3] = &models.GraphNode{GraphID: 3, Kind: "webhook", NodeKind: models.NodeKindModule}

	result := CheckPaths(graph)

	assert.True(t, result.HasPathWarnings)
	assert.Equal(t, []int{3}, result.Unreachable)
	assert.Equal(t, []int{3}, result.MissingInputs)
}

func TestCheckPathsClean(t *testing.T) {
	result := CheckPaths(linearGraph())

	assert.False(t, result.HasPathWarnings)
}

func TestCheckSupportedModules(t *testing.T) {
	reg := testRegistry(t)

	graph := linearGraph()
	graph.Nodes[3] = &models.GraphNode{GraphID: 3, Kind: "enrich-event", NodeKind: models.NodeKindModule}
	graph.Nodes[4] = &models.GraphNode{GraphID: 4, Kind: "enrich-event", NodeKind: models.NodeKindModule}
	graph.Nodes[5] = &models.GraphNode{GraphID: 5, Kind: "assign-country", NodeKind: models.NodeKindModule}

	unsupported := CheckSupportedModules(graph, reg)

	assert.Equal(t, []string{"assign-country", "enrich-event"}, unsupported)
}

func TestCheckSupportedModulesAllKnown(t *testing.T) {
	assert.Empty(t, CheckSupportedModules(linearGraph(), testRegistry(t)))
}

func TestCheck(t *testing.T) {
	reg := testRegistry(t)

	result := Check(linearGraph(), reg)

	assert.True(t, result.Acyclic.IsAcyclic)
	assert.False(t, result.Arity.HasMultipleOutputConnection)
	assert.False(t, result.Paths.HasPathWarnings)
	assert.Empty(t, result.UnsupportedModules)
	assert.True(t, result.Executable())
}

func TestCheckNotExecutableWithUnknownKind(t *testing.T) {
	reg := testRegistry(t)

	graph := linearGraph()
	graph.Nodes[2].Kind = "enrich-event"

	result := Check(graph, reg)

	assert.False(t, result.Executable())
}
