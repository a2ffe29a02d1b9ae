// Package web provides HTTP request and response types for the workflow API.
package web

import (
	"encoding/json"
	"time"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/wire"
)

// SaveWorkflowRequest represents the body for creating or updating a
// workflow. Data carries the graph in the editor's wire format.
type SaveWorkflowRequest struct {
	Name         string          `json:"name"          validate:"required,min=3"`
	Description  string          `json:"description"`
	TriggerID    string          `json:"trigger_id"    validate:"required"`
	Enabled      bool            `json:"enabled"`
	DebugEnabled bool            `json:"debug_enabled"`
	Data         json.RawMessage `json:"data"          validate:"required"`
}

// ToModel decodes the wire graph and assembles the model the service layer
// expects.
func (r *SaveWorkflowRequest) ToModel() (*models.Workflow, error) {
	graph, err := wire.Decode(r.Data)
	if err != nil {
		return nil, err
	}

	return &models.Workflow{
		Name:         r.Name,
		Description:  r.Description,
		TriggerID:    r.TriggerID,
		Enabled:      r.Enabled,
		DebugEnabled: r.DebugEnabled,
		Data:         graph,
	}, nil
}

// WorkflowResponse mirrors the stored workflow with the graph re-encoded in
// the editor's wire format.
type WorkflowResponse struct {
	ID           int             `json:"id"`
	UUID         string          `json:"uuid"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	TriggerID    string          `json:"trigger_id"`
	Enabled      bool            `json:"enabled"`
	DebugEnabled bool            `json:"debug_enabled"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransformWorkflowResponse encodes workflow.Data back to wire JSON.
func TransformWorkflowResponse(workflow *models.Workflow) (*WorkflowResponse, error) {
	var data json.RawMessage

	if workflow.Data != nil {
		encoded, err := wire.Encode(workflow.Data)
		if err != nil {
			return nil, err
		}

		data = encoded
	}

	return &WorkflowResponse{
		ID:           workflow.ID,
		UUID:         workflow.UUID,
		Name:         workflow.Name,
		Description:  workflow.Description,
		TriggerID:    workflow.TriggerID,
		Enabled:      workflow.Enabled,
		DebugEnabled: workflow.DebugEnabled,
		Data:         data,
		CreatedAt:    workflow.CreatedAt,
		UpdatedAt:    workflow.UpdatedAt,
	}, nil
}

// SettingRequest represents the body for flipping the engine-wide switch.
type SettingRequest struct {
	Enabled bool `json:"enabled"`
}
