package addtag

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// ErrNoDatabaseHandle is returned when the caller shared no database handle.
var ErrNoDatabaseHandle = errors.New("add-tag requires a database handle")

// AddTagNode writes a tag row for the scoped entity through the handle the
// caller shared. For gating triggers that handle is the caller's own
// transaction, so a blocked run rolls the tag back with everything else.
type AddTagNode struct {
	tag string
}

// NewAddTagNode creates an add-tag node.
func NewAddTagNode(tag string) *AddTagNode {
	return &AddTagNode{tag: tag}
}

// ID returns the node kind id.
func (n *AddTagNode) ID() string {
	return "add-tag"
}

// Exec inserts the tag row.
func (n *AddTagNode) Exec(ctx context.Context, req *protocol.ExecutionRequest) (protocol.ExecResult, error) {
	if req.Tx == nil {
		return protocol.ExecResult{Status: models.ExecFailure}, ErrNoDatabaseHandle
	}

	_, err := req.Tx.ExecContext(ctx,
		"INSERT INTO tags (name, trigger_id, workflow_id) VALUES ($1, $2, $3)",
		n.tag, req.TriggerID, req.WorkflowID)
	if err != nil {
		return protocol.ExecResult{Status: models.ExecFailure}, fmt.Errorf("failed to attach tag %q: %w", n.tag, err)
	}

	return protocol.ExecResult{Status: models.ExecSuccess}, nil
}
