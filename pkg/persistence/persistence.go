// Package persistence provides the storage abstraction for workflows, admin
// settings and the audit log.
package persistence

import (
	"context"
	"database/sql"

	"github.com/flowgate-io/flowgate/pkg/models"
)

// FeatureEnabledKey is the admin setting gating the whole engine.
// Only the literal value "True" enables execution.
const FeatureEnabledKey = "workflow_feature_enabled"

// DBTX is the database handle a gating caller shares with the engine.
// Both *sql.DB and *sql.Tx satisfy it, so module side effects land inside
// the caller's transaction and roll back with it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id int) (*models.Workflow, error)

	// WorkflowByTrigger returns the enabled workflow bound to the trigger
	// id. When storage holds more than one (which SaveWorkflow prevents),
	// the lowest id wins.
	WorkflowByTrigger(ctx context.Context, triggerID string) (*models.Workflow, error)

	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id int) error

	Setting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error

	// AppendLog writes one audit row on the store's own handle, outside any
	// caller transaction, so the trail survives a gating rollback.
	AppendLog(ctx context.Context, entry *models.LogEntry) error
	Logs(ctx context.Context, limit int) ([]*models.LogEntry, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
