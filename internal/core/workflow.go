package core

import (
	"errors"
	"fmt"
)

// Step is a stage of the guided test workflow.
type Step string

const (
	StepUpload  Step = "upload"
	StepReview  Step = "review"
	StepTesting Step = "testing"
)

// ErrStepLocked is returned when a step's prerequisite is not complete.
var ErrStepLocked = errors.New("step is locked")

// Workflow tracks the active step and which steps have been completed.
// It is not safe for concurrent use; ImportSession guards it.
type Workflow struct {
	current   Step
	completed map[Step]bool
}

// NewWorkflow returns a workflow positioned at the upload step.
func NewWorkflow() Workflow {
	return Workflow{current: StepUpload, completed: make(map[Step]bool)}
}

// Current returns the active step.
func (w *Workflow) Current() Step { return w.current }

// Completed returns the completed steps in workflow order.
func (w *Workflow) Completed() []Step {
	var out []Step
	for _, s := range []Step{StepUpload, StepReview, StepTesting} {
		if w.completed[s] {
			out = append(out, s)
		}
	}
	return out
}

// Complete marks a step done without moving.
func (w *Workflow) Complete(s Step) { w.completed[s] = true }

// IsComplete reports whether s has been completed.
func (w *Workflow) IsComplete(s Step) bool { return w.completed[s] }

// Advance moves to step s. Review requires a completed upload and testing
// requires a completed review. Moving back is always allowed.
func (w *Workflow) Advance(s Step) error {
	switch s {
	case StepUpload:
	case StepReview:
		if !w.IsComplete(StepUpload) {
			return fmt.Errorf("%w: %s requires %s", ErrStepLocked, s, StepUpload)
		}
	case StepTesting:
		if !w.IsComplete(StepReview) {
			return fmt.Errorf("%w: %s requires %s", ErrStepLocked, s, StepReview)
		}
	default:
		return fmt.Errorf("unknown step %q", s)
	}
	w.current = s
	return nil
}
