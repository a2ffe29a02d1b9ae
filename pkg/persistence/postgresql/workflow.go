package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/wire"
)

const workflowColumns = "id, uuid, name, description, trigger_id, enabled, debug_enabled, data, created_at, updated_at"

func scanWorkflow(row interface{ Scan(dest ...any) error }) (*models.Workflow, error) {
	var (
		workflow models.Workflow
		data     []byte
	)

	err := row.Scan(
		&workflow.ID, &workflow.UUID, &workflow.Name, &workflow.Description,
		&workflow.TriggerID, &workflow.Enabled, &workflow.DebugEnabled,
		&data, &workflow.CreatedAt, &workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		graph, err := wire.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode graph of workflow %d: %w", workflow.ID, err)
		}

		workflow.Data = graph
	}

	return &workflow, nil
}

// Workflows returns every stored workflow ordered by id.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT "+workflowColumns+" FROM workflows ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var workflows []*models.Workflow

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, rows.Err()
}

// WorkflowByID loads one workflow.
func (p *Persistence) WorkflowByID(ctx context.Context, id int) (*models.Workflow, error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+workflowColumns+" FROM workflows WHERE id = $1", id)

	workflow, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
	}

	return workflow, err
}

// WorkflowByTrigger returns the enabled workflow bound to the trigger id.
func (p *Persistence) WorkflowByTrigger(ctx context.Context, triggerID string) (*models.Workflow, error) {
	row := p.db.QueryRowContext(ctx,
		"SELECT "+workflowColumns+" FROM workflows WHERE trigger_id = $1 AND enabled ORDER BY id LIMIT 1",
		triggerID)

	workflow, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewTriggerError("WorkflowByTrigger", triggerID, persistence.ErrWorkflowNotFound)
	}

	return workflow, err
}

// SaveWorkflow inserts or updates a workflow. The partial unique index on
// (trigger_id) WHERE enabled enforces one enabled workflow per trigger.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	var data []byte

	if workflow.Data != nil {
		encoded, err := wire.Encode(workflow.Data)
		if err != nil {
			return fmt.Errorf("failed to encode graph of workflow %d: %w", workflow.ID, err)
		}

		data = encoded
	}

	if workflow.ID == 0 {
		err := p.db.QueryRowContext(ctx, `
			INSERT INTO workflows (uuid, name, description, trigger_id, enabled, debug_enabled, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			workflow.UUID, workflow.Name, workflow.Description, workflow.TriggerID,
			workflow.Enabled, workflow.DebugEnabled, jsonOrNil(data),
			workflow.CreatedAt, workflow.UpdatedAt,
		).Scan(&workflow.ID)
		if err != nil {
			return p.saveError(workflow, err)
		}

		return nil
	}

	_, err := p.db.ExecContext(ctx, `
		UPDATE workflows
		SET uuid = $2, name = $3, description = $4, trigger_id = $5,
			enabled = $6, debug_enabled = $7, data = $8, updated_at = $9
		WHERE id = $1`,
		workflow.ID, workflow.UUID, workflow.Name, workflow.Description,
		workflow.TriggerID, workflow.Enabled, workflow.DebugEnabled,
		jsonOrNil(data), workflow.UpdatedAt,
	)
	if err != nil {
		return p.saveError(workflow, err)
	}

	return nil
}

func (p *Persistence) saveError(workflow *models.Workflow, err error) error {
	// Unique violation on the partial trigger index means a second enabled
	// workflow tried to claim the trigger.
	if isUniqueViolation(err) {
		return persistence.NewTriggerError("SaveWorkflow", workflow.TriggerID, persistence.ErrTriggerAlreadyBound)
	}

	return persistence.NewWorkflowError("SaveWorkflow", workflow.ID, err)
}

func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }

	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}

	return false
}

func jsonOrNil(data []byte) any {
	if len(data) == 0 {
		return nil
	}

	return json.RawMessage(data)
}

// DeleteWorkflow removes a workflow.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id int) error {
	result, err := p.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return persistence.NewWorkflowError("DeleteWorkflow", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return persistence.NewWorkflowError("DeleteWorkflow", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// Setting reads one admin setting.
func (p *Persistence) Setting(ctx context.Context, key string) (string, error) {
	var value string

	err := p.db.QueryRowContext(ctx, "SELECT value FROM admin_settings WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", persistence.ErrSettingNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	return value, nil
}

// SaveSetting upserts one admin setting.
func (p *Persistence) SaveSetting(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO admin_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	return nil
}

// AppendLog writes one audit row on the store's own connection, outside any
// caller transaction.
func (p *Persistence) AppendLog(ctx context.Context, entry *models.LogEntry) error {
	err := p.db.QueryRowContext(ctx,
		"INSERT INTO logs (model, title) VALUES ($1, $2) RETURNING id, created_at",
		entry.Model, entry.Title,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}

	return nil
}

// Logs returns the most recent audit rows in insertion order.
func (p *Persistence) Logs(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	query := "SELECT id, model, title, created_at FROM logs ORDER BY id"

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = p.db.QueryContext(ctx,
			"SELECT id, model, title, created_at FROM ("+query+" DESC LIMIT $1) sub ORDER BY id", limit)
	} else {
		rows, err = p.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var logs []*models.LogEntry

	for rows.Next() {
		entry := &models.LogEntry{}
		if err := rows.Scan(&entry.ID, &entry.Model, &entry.Title, &entry.CreatedAt); err != nil {
			return nil, err
		}

		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
