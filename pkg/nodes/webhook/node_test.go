package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

func TestExecPostsScope(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	node := NewWebhookNode(server.URL, nil)

	scope := map[string]any{"Event": map[string]any{"uuid": "abc-123"}}

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{Scope: scope})
	require.NoError(t, err)

	assert.Equal(t, models.ExecSuccess, result.Status)
	assert.Equal(t, "abc-123", received["Event"].(map[string]any)["uuid"])
}

func TestExecPrefersConfiguredPayload(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	node := NewWebhookNode(server.URL, map[string]any{
		"payload": map[string]any{"alert": "publish blocked"},
	})

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{
		Scope: map[string]any{"ignored": true},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ExecSuccess, result.Status)
	assert.Equal(t, map[string]any{"alert": "publish blocked"}, received)
}

func TestExecReportsHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	node := NewWebhookNode(server.URL, nil)

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.ExecFailure, result.Status)
	assert.Contains(t, result.Message, "502")
}

func TestExecUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	node := NewWebhookNode(server.URL, nil)

	result, err := node.Exec(context.Background(), &protocol.ExecutionRequest{})
	require.Error(t, err)
	assert.Equal(t, models.ExecFailure, result.Status)
}
