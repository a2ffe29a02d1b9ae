package models

// RunStatus is the lifecycle state of a single engine run.
type RunStatus string

const (
	RunCompleted          RunStatus = "completed"
	RunBlocked            RunStatus = "blocked"
	RunSkippedUnsupported RunStatus = "skipped-unsupported"
	RunSkippedDisabled    RunStatus = "skipped-disabled"
)

// ExecStatus is the result status a single module reports.
type ExecStatus string

const (
	ExecSuccess        ExecStatus = "success"
	ExecPartialSuccess ExecStatus = "partial-success"
	ExecFailure        ExecStatus = "failure"
)

// Outcome is what Execute hands back to the calling CRUD handler.
type Outcome struct {
	Status   RunStatus `json:"status"`
	Messages []string  `json:"messages,omitempty"`
}

// Blocking reports whether a gating caller must reject its action and roll
// back. SkippedUnsupported is fail-closed: an unexecutable workflow must not
// silently allow the gated action.
func (o *Outcome) Blocking() bool {
	return o.Status == RunBlocked || o.Status == RunSkippedUnsupported
}
