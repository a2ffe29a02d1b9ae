package models

import "time"

// Workflow binds a graph to one platform lifecycle trigger. At most one
// enabled workflow may be bound to a trigger id; the persistence layer
// enforces this at save time.
type Workflow struct {
	ID           int       `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"        validate:"required,min=3"`
	Description  string    `json:"description"`
	TriggerID    string    `json:"trigger_id"  validate:"required"`
	Enabled      bool      `json:"enabled"`
	DebugEnabled bool      `json:"debug_enabled"`
	Data         *Graph    `json:"data"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
