package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWorkflow_Advance(t *testing.T) {
	w := NewWorkflow()

	if err := w.Advance(StepReview); !errors.Is(err, ErrStepLocked) {
		t.Fatalf("Advance(review) before upload = %v, want ErrStepLocked", err)
	}

	w.Complete(StepUpload)
	if err := w.Advance(StepReview); err != nil {
		t.Fatalf("Advance(review) = %v", err)
	}
	if err := w.Advance(StepTesting); !errors.Is(err, ErrStepLocked) {
		t.Fatalf("Advance(testing) before review = %v, want ErrStepLocked", err)
	}

	w.Complete(StepReview)
	if err := w.Advance(StepTesting); err != nil {
		t.Fatalf("Advance(testing) = %v", err)
	}
	if w.Current() != StepTesting {
		t.Errorf("Current() = %s, want testing", w.Current())
	}

	if err := w.Advance(StepUpload); err != nil {
		t.Errorf("moving back to upload = %v, want nil", err)
	}
	if err := w.Advance("calibration"); err == nil || errors.Is(err, ErrStepLocked) {
		t.Errorf("Advance(unknown) = %v, want unknown step error", err)
	}
}

func TestWorkflow_CompletedOrder(t *testing.T) {
	w := NewWorkflow()
	w.Complete(StepTesting)
	w.Complete(StepUpload)

	if diff := cmp.Diff([]Step{StepUpload, StepTesting}, w.Completed()); diff != "" {
		t.Errorf("Completed() mismatch (-want +got):\n%s", diff)
	}
	if !w.IsComplete(StepTesting) || w.IsComplete(StepReview) {
		t.Errorf("IsComplete(testing, review) = %v, %v, want true, false",
			w.IsComplete(StepTesting), w.IsComplete(StepReview))
	}
}
