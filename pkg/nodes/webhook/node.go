package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

const requestTimeout = 10 * time.Second

// WebhookNode posts a JSON payload to a configured URL. Failures report
// ExecFailure; the engine decides whether that blocks the run.
type WebhookNode struct {
	url     string
	payload map[string]any
	client  *http.Client
}

// NewWebhookNode creates a webhook node from its configuration.
func NewWebhookNode(url string, config map[string]any) *WebhookNode {
	payload, _ := config["payload"].(map[string]any)

	return &WebhookNode{
		url:     url,
		payload: payload,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// ID returns the node kind id.
func (n *WebhookNode) ID() string {
	return "webhook"
}

// Exec posts the payload. The trigger scope is used when no payload is
// configured.
func (n *WebhookNode) Exec(ctx context.Context, req *protocol.ExecutionRequest) (protocol.ExecResult, error) {
	body := n.payload
	if body == nil {
		body = req.Scope
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return protocol.ExecResult{Status: models.ExecFailure}, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(encoded))
	if err != nil {
		return protocol.ExecResult{Status: models.ExecFailure}, fmt.Errorf("failed to build webhook request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return protocol.ExecResult{Status: models.ExecFailure}, fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return protocol.ExecResult{
			Status:  models.ExecFailure,
			Message: fmt.Sprintf("webhook returned status %d", resp.StatusCode),
		}, nil
	}

	return protocol.ExecResult{Status: models.ExecSuccess}, nil
}
