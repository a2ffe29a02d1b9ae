// Package config provides YAML seed-file loading for bootstrapping a
// deployment with settings and workflow definitions.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/wire"
)

// SeedFile is the structure of a seed YAML document. Workflow graphs are
// embedded in the editor wire format so the same document can be exported
// from and imported into the editor.
type SeedFile struct {
	Settings  map[string]string  `yaml:"settings"`
	Workflows []SeedWorkflowFile `yaml:"workflows"`
}

// SeedWorkflowFile is one workflow definition inside a seed file.
type SeedWorkflowFile struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	TriggerID    string         `yaml:"trigger_id"`
	Enabled      bool           `yaml:"enabled"`
	DebugEnabled bool           `yaml:"debug_enabled"`
	Data         map[string]any `yaml:"data"`
}

// Seed is the parsed, validated seed content.
type Seed struct {
	Settings  map[string]string
	Workflows []*models.Workflow
}

// LoadSeed loads and parses a seed file, decoding every workflow graph.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seedFile SeedFile
	if err := yaml.Unmarshal(data, &seedFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML seed file: %w", err)
	}

	seed := &Seed{
		Settings:  seedFile.Settings,
		Workflows: make([]*models.Workflow, 0, len(seedFile.Workflows)),
	}

	for _, wf := range seedFile.Workflows {
		// Route the YAML graph through the wire decoder so seed files obey
		// exactly the validation the editor payloads do.
		raw, err := json.Marshal(wf.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph of workflow %q: %w", wf.Name, err)
		}

		graph, err := wire.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid graph in workflow %q: %w", wf.Name, err)
		}

		seed.Workflows = append(seed.Workflows, &models.Workflow{
			Name:         wf.Name,
			Description:  wf.Description,
			TriggerID:    wf.TriggerID,
			Enabled:      wf.Enabled,
			DebugEnabled: wf.DebugEnabled,
			Data:         graph,
		})
	}

	return seed, nil
}
