// Package addtag provides the tag-attaching module.
package addtag

import (
	"errors"

	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Factory creates AddTagNode instances.
type Factory struct{}

// Create creates a new AddTagNode instance.
func (f *Factory) Create(config map[string]any) (protocol.Module, error) {
	tag, ok := config["tag"].(string)
	if !ok || tag == "" {
		return nil, errors.New("missing required field 'tag'")
	}

	return NewAddTagNode(tag), nil
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "add-tag"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Add Tag"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Attaches a tag to the entity that fired the trigger, inside the caller's transaction"
}

// Schema returns the JSON schema for add-tag configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tag": map[string]any{
				"type":        "string",
				"description": "Tag name to attach. Supports {{Entity.field}} placeholders.",
			},
		},
		"required": []string{"tag"},
	}
}

// NewFactory creates a new factory instance.
func NewFactory() protocol.ModuleFactory {
	return &Factory{}
}
