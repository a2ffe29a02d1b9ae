package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
)

const editorDocument = `{
	"1": {
		"id": 1,
		"name": "Event Publish",
		"data": {"id": "event-publish", "disabled": false},
		"class": "block-type-trigger",
		"typenode": false,
		"inputs": {},
		"outputs": {
			"output_1": {"connections": [{"node": "2", "output": "input_1"}]}
		},
		"pos_x": 100,
		"pos_y": 200,
		"html": "event-publish"
	},
	"2": {
		"id": 2,
		"name": "Stop Execution",
		"data": {
			"id": "stop-execution",
			"disabled": false,
			"indexed_params": {"message": "Publishing is suspended"}
		},
		"class": "block-type-module",
		"typenode": false,
		"inputs": {
			"input_1": {"connections": [{"node": "1", "input": "output_1"}]}
		},
		"outputs": {},
		"pos_x": 300,
		"pos_y": 200,
		"html": "stop-execution"
	},
	"_frames": {
		"f1": {"id": "f1", "text": "Gate", "nodes": [1, 2]}
	}
}`

func TestDecode(t *testing.T) {
	graph, err := Decode([]byte(editorDocument))
	require.NoError(t, err)

	require.Len(t, graph.Nodes, 2)

	root, err := graph.Root()
	require.NoError(t, err)
	assert.Equal(t, 1, root.GraphID)
	assert.Equal(t, "event-publish", root.Kind)
	assert.Equal(t, "Event Publish", root.Name)
	assert.Equal(t, map[int][]models.Connection{1: {{Node: 2, Port: 1}}}, root.Outputs)
	assert.Equal(t, 100.0, root.Appearance["pos_x"])

	stop, ok := graph.Node(2)
	require.True(t, ok)
	assert.Equal(t, "stop-execution", stop.Kind)
	assert.Equal(t, models.NodeKindModule, stop.NodeKind)
	assert.Equal(t, map[int][]models.Connection{1: {{Node: 1, Port: 1}}}, stop.Inputs)
	assert.Equal(t, "Publishing is suspended", stop.Configuration["message"])

	require.Contains(t, graph.Frames, "f1")
	assert.Equal(t, []int{1, 2}, graph.Frames["f1"].Nodes)
}

func TestDecodeRejectsUnknownClass(t *testing.T) {
	doc := `{"1": {"id": 1, "data": {"id": "x"}, "class": "block-type-widget"}}`

	_, err := Decode([]byte(doc))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.NodeID)
	assert.Contains(t, verr.Message, "block-type-widget")
}

func TestDecodeRejectsUnknownConnectionTarget(t *testing.T) {
	doc := `{
		"1": {
			"id": 1,
			"data": {"id": "event-publish"},
			"class": "block-type-trigger",
			"outputs": {"output_1": {"connections": [{"node": "9", "output": "input_1"}]}}
		}
	}`

	_, err := Decode([]byte(doc))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "unknown node 9")
}

func TestDecodeRejectsMalformedPortName(t *testing.T) {
	doc := `{
		"1": {
			"id": 1,
			"data": {"id": "event-publish"},
			"class": "block-type-trigger",
			"outputs": {"out_one": {"connections": []}}
		}
	}`

	_, err := Decode([]byte(doc))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "out_one")
}

func TestDecodeRejectsNonIntegerNodeKey(t *testing.T) {
	doc := `{"first": {"id": 1, "data": {"id": "x"}, "class": "block-type-trigger"}}`

	_, err := Decode([]byte(doc))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, `"first"`)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	graph, err := Decode([]byte(editorDocument))
	require.NoError(t, err)

	encoded, err := Encode(graph)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, graph, decoded)
}
