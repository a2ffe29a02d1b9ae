package wire

import "fmt"

// ValidationError is returned by Decode when the editor document is
// malformed: unparsable JSON, unknown classes, or connections referencing
// node ids that do not exist in the document.
type ValidationError struct {
	NodeID  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.NodeID != 0 {
		return fmt.Sprintf("graph validation failed at node %d: %s", e.NodeID, e.Message)
	}

	return "graph validation failed: " + e.Message
}
