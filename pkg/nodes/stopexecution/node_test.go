package stopexecution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

func TestExecReportsPartialSuccess(t *testing.T) {
	node := NewStopExecutionNode(map[string]any{"message": "Publishing is suspended"})

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecPartialSuccess, result.Status)
	assert.Equal(t, "Publishing is suspended", result.Message)
}

func TestExecDefaultMessage(t *testing.T) {
	node := NewStopExecutionNode(nil)

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{})
	require.NoError(t, err)

	assert.Equal(t, DefaultMessage, result.Message)
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	assert.Equal(t, "stop-execution", factory.ID())

	module, err := factory.Create(map[string]any{"message": "halt"})
	require.NoError(t, err)
	assert.Equal(t, "stop-execution", module.ID())
}
