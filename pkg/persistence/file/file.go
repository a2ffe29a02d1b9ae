// Package file provides file-based persistence for workflows, settings and
// the audit log. It backs tests and small single-node deployments.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/wire"
)

const dirPerm = 0o755

// Persistence implements persistence.Persistence on the local file system.
// Workflows are stored one JSON document per id with the graph kept in the
// editor wire format, which makes the stored artifact the externally
// versioned one.
type Persistence struct {
	mu   sync.Mutex
	root string
}

// storedWorkflow is the on-disk envelope. Data carries the wire-format graph.
type storedWorkflow struct {
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

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) workflowDir() string {
	return filepath.Join(p.root, "workflows")
}

func (p *Persistence) workflowPath(id int) string {
	return filepath.Join(p.workflowDir(), strconv.Itoa(id)+".json")
}

func (p *Persistence) settingsPath() string {
	return filepath.Join(p.root, "settings.json")
}

func (p *Persistence) logsPath() string {
	return filepath.Join(p.root, "logs.json")
}

// Workflows returns every stored workflow ordered by id.
func (p *Persistence) Workflows(_ context.Context) ([]*models.Workflow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.loadAll()
}

func (p *Persistence) loadAll() ([]*models.Workflow, error) {
	entries, err := os.ReadDir(p.workflowDir())
	if errors.Is(err, os.ErrNotExist) {
		return []*models.Workflow{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		workflow, err := p.loadFile(filepath.Join(p.workflowDir(), entry.Name()))
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool { return workflows[i].ID < workflows[j].ID })

	return workflows, nil
}

func (p *Persistence) loadFile(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}

	var stored storedWorkflow
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}

	workflow := &models.Workflow{
		ID:           stored.ID,
		UUID:         stored.UUID,
		Name:         stored.Name,
		Description:  stored.Description,
		TriggerID:    stored.TriggerID,
		Enabled:      stored.Enabled,
		DebugEnabled: stored.DebugEnabled,
		CreatedAt:    stored.CreatedAt,
		UpdatedAt:    stored.UpdatedAt,
	}

	if len(stored.Data) > 0 {
		graph, err := wire.Decode(stored.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode graph of workflow %d: %w", stored.ID, err)
		}

		workflow.Data = graph
	}

	return workflow, nil
}

// WorkflowByID loads one workflow.
func (p *Persistence) WorkflowByID(_ context.Context, id int) (*models.Workflow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	workflow, err := p.loadFile(p.workflowPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, err
	}

	return workflow, nil
}

// WorkflowByTrigger returns the enabled workflow bound to the trigger id,
// lowest id first when storage is inconsistent.
func (p *Persistence) WorkflowByTrigger(_ context.Context, triggerID string) (*models.Workflow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	workflows, err := p.loadAll()
	if err != nil {
		return nil, err
	}

	for _, workflow := range workflows {
		if workflow.Enabled && workflow.TriggerID == triggerID {
			return workflow, nil
		}
	}

	return nil, persistence.NewTriggerError("WorkflowByTrigger", triggerID, persistence.ErrWorkflowNotFound)
}

// SaveWorkflow stores a workflow, assigning an id when missing. An enabled
// workflow may not share its trigger id with another enabled workflow.
func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.loadAll()
	if err != nil {
		return err
	}

	if workflow.ID == 0 {
		maxID := 0
		for _, w := range existing {
			if w.ID > maxID {
				maxID = w.ID
			}
		}

		workflow.ID = maxID + 1
	}

	if workflow.Enabled {
		for _, w := range existing {
			if w.Enabled && w.TriggerID == workflow.TriggerID && w.ID != workflow.ID {
				return persistence.NewTriggerError("SaveWorkflow", workflow.TriggerID, persistence.ErrTriggerAlreadyBound)
			}
		}
	}

	stored := storedWorkflow{
		ID:           workflow.ID,
		UUID:         workflow.UUID,
		Name:         workflow.Name,
		Description:  workflow.Description,
		TriggerID:    workflow.TriggerID,
		Enabled:      workflow.Enabled,
		DebugEnabled: workflow.DebugEnabled,
		CreatedAt:    workflow.CreatedAt,
		UpdatedAt:    workflow.UpdatedAt,
	}

	if workflow.Data != nil {
		encoded, err := wire.Encode(workflow.Data)
		if err != nil {
			return fmt.Errorf("failed to encode graph of workflow %d: %w", workflow.ID, err)
		}

		stored.Data = encoded
	}

	if err := os.MkdirAll(p.workflowDir(), dirPerm); err != nil {
		return fmt.Errorf("failed to create workflow directory: %w", err)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workflow %d: %w", workflow.ID, err)
	}

	if err := os.WriteFile(p.workflowPath(workflow.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write workflow %d: %w", workflow.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow.
func (p *Persistence) DeleteWorkflow(_ context.Context, id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := os.Remove(p.workflowPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return persistence.NewWorkflowError("DeleteWorkflow", id, persistence.ErrWorkflowNotFound)
	}

	return err
}

// Setting reads one admin setting.
func (p *Persistence) Setting(_ context.Context, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	settings, err := p.loadSettings()
	if err != nil {
		return "", err
	}

	value, ok := settings[key]
	if !ok {
		return "", persistence.ErrSettingNotFound
	}

	return value, nil
}

// SaveSetting writes one admin setting.
func (p *Persistence) SaveSetting(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	settings, err := p.loadSettings()
	if err != nil {
		return err
	}

	settings[key] = value

	if err := os.MkdirAll(p.root, dirPerm); err != nil {
		return fmt.Errorf("failed to create persistence root: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return os.WriteFile(p.settingsPath(), data, 0o600)
}

func (p *Persistence) loadSettings() (map[string]string, error) {
	data, err := os.ReadFile(p.settingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := map[string]string{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return settings, nil
}

// AppendLog appends one audit row.
func (p *Persistence) AppendLog(_ context.Context, entry *models.LogEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	logs, err := p.loadLogs()
	if err != nil {
		return err
	}

	entry.ID = len(logs) + 1

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	logs = append(logs, entry)

	if err := os.MkdirAll(p.root, dirPerm); err != nil {
		return fmt.Errorf("failed to create persistence root: %w", err)
	}

	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode logs: %w", err)
	}

	return os.WriteFile(p.logsPath(), data, 0o600)
}

// Logs returns the most recent audit rows in insertion order. limit <= 0
// returns everything.
func (p *Persistence) Logs(_ context.Context, limit int) ([]*models.LogEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logs, err := p.loadLogs()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(logs) > limit {
		logs = logs[len(logs)-limit:]
	}

	return logs, nil
}

func (p *Persistence) loadLogs() ([]*models.LogEntry, error) {
	data, err := os.ReadFile(p.logsPath())
	if errors.Is(err, os.ErrNotExist) {
		return []*models.LogEntry{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}

	logs := []*models.LogEntry{}
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("failed to parse logs: %w", err)
	}

	return logs, nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
