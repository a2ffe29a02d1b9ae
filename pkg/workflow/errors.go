package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
)

// BlockedError is what a gating caller receives when the run blocked the
// action. Its message is the user-visible aggregate; raw module errors never
// surface.
type BlockedError struct {
	TriggerID string
	Outcome   *models.Outcome
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("Workflow '%s' is blocking and failed with the following errors:\n%s",
		e.TriggerID, strings.Join(e.Outcome.Messages, "\n"))
}

// IsBlocked checks if an error indicates a blocked gating run.
func IsBlocked(err error) bool {
	var blocked *BlockedError

	return errors.As(err, &blocked)
}

// ExecuteForGate runs the trigger and converts a blocking outcome into a
// *BlockedError. Gating CRUD handlers call this, roll their transaction back
// on error and surface the message. Engine failures also gate the action:
// fail closed.
func (e *Executor) ExecuteForGate(ctx context.Context, triggerID string, scope map[string]any, tx persistence.DBTX) error {
	outcome, err := e.Execute(ctx, triggerID, scope, tx)
	if err != nil {
		return fmt.Errorf("workflow engine failed for trigger %s: %w", triggerID, err)
	}

	if outcome.Blocking() {
		return &BlockedError{TriggerID: triggerID, Outcome: outcome}
	}

	return nil
}
