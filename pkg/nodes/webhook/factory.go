// Package webhook provides the webhook notification module.
package webhook

import (
	"errors"

	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Factory creates WebhookNode instances.
type Factory struct{}

// Create creates a new WebhookNode instance.
func (f *Factory) Create(config map[string]any) (protocol.Module, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	return NewWebhookNode(url, config), nil
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "webhook"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Webhook"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Posts the trigger context or a configured payload to an external URL"
}

// Schema returns the JSON schema for webhook configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Destination URL for the POST request",
			},
			"payload": map[string]any{
				"type":        "object",
				"description": "Optional JSON payload. Defaults to the full trigger context. Supports {{Entity.field}} placeholders.",
			},
		},
		"required": []string{"url"},
	}
}

// NewFactory creates a new factory instance.
func NewFactory() protocol.ModuleFactory {
	return &Factory{}
}
