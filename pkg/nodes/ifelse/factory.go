// Package ifelse provides the two-way condition module.
package ifelse

import (
	"fmt"

	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Factory creates IfElseNode instances.
type Factory struct{}

// Create creates a new IfElseNode instance.
func (f *Factory) Create(config map[string]any) (protocol.Module, error) {
	node, err := NewIfElseNode(config)
	if err != nil {
		return nil, fmt.Errorf("invalid if-else configuration: %w", err)
	}

	return node, nil
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "if-else"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "If/Else"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Routes execution to the then-branch (output 1) or else-branch (output 2) based on a comparison"
}

// Schema returns the JSON schema for if-else configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{
				"type":        "string",
				"description": "Left-hand value. Supports {{Entity.field}} placeholders.",
			},
			"operator": map[string]any{
				"type":        "string",
				"description": "Comparison operator",
				"enum":        []string{"equals", "not-equals", "contains"},
				"default":     "equals",
			},
			"expected": map[string]any{
				"type":        "string",
				"description": "Right-hand value to compare against",
			},
		},
		"required": []string{"value"},
	}
}

// NewFactory creates a new factory instance.
func NewFactory() protocol.ModuleFactory {
	return &Factory{}
}
