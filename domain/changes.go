package domain

import "fmt"

// ChangeOp enumerates the typed edit operations a tutor can apply to a
// draft. Each change may target a synthetic topic/subtopic id from the
// hierarchical view and carries a free-text instruction for the model.
type ChangeOp string

const (
	ChangeAddTopic       ChangeOp = "add-topic"
	ChangeRemoveTopic    ChangeOp = "remove-topic"
	ChangeMoveTopic      ChangeOp = "move-topic"
	ChangeAddSubtopic    ChangeOp = "add-subtopic"
	ChangeRemoveSubtopic ChangeOp = "remove-subtopic"
	ChangeMoveSubtopic   ChangeOp = "move-subtopic"
)

type DraftChange struct {
	Op          ChangeOp `json:"op"`
	TargetID    string   `json:"target_id,omitempty"`
	Instruction string   `json:"instruction,omitempty"`
}

func (c DraftChange) Validate() error {
	switch c.Op {
	case ChangeAddTopic, ChangeRemoveTopic, ChangeMoveTopic,
		ChangeAddSubtopic, ChangeRemoveSubtopic, ChangeMoveSubtopic:
		return nil
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown change op %q", c.Op)}
	}
}
