package models

import "time"

// LogEntry is one append-only audit row describing an execution step. Rows
// are never updated or deleted by the engine.
type LogEntry struct {
	ID        int       `json:"id"`
	Model     string    `json:"model"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
