// Package router decides where a request inside a workflow should go.
//
// The workflow core answers questions about steps; this package turns those
// answers into the routing policy every caller must follow:
//
//   - [Resolve] checks that the requested step exists, is active and is
//     accessible, and otherwise picks the step to redirect to
//   - [SuccessTarget] picks the step to continue with after a submission
//   - [Plan] snapshots the whole workflow for previews and JSON output
//   - [Reverse] turns a step location into a concrete path
//
// The package is independent of any HTTP framework; see the server package
// for the gin adapter.
package router

import (
	"errors"

	"brambling/internal/workflow"
)

// Sentinel errors for workflow routing.
var (
	// ErrNoAccessibleStep is returned when the requested step cannot be
	// served and no active, accessible step exists to redirect to.
	ErrNoAccessibleStep = errors.New("no accessible step in workflow")

	// ErrWorkflowComplete is returned by [SuccessTarget] when the submitted
	// step is valid and there is no active step after it. Callers should
	// leave the workflow rather than treat this as a failure.
	ErrWorkflowComplete = errors.New("workflow is complete, no next step")
)

// Decision is the outcome of resolving a requested step.
//
// Exactly one of Current and Redirect is set for a resolvable request. Both
// are nil when the request did not address a step at all.
type Decision[C any] struct {
	// Current is the requested step when it may be served.
	Current *workflow.Step[C]

	// Redirect is the step the caller must redirect to instead.
	Redirect *workflow.Step[C]
}

// Resolve decides whether the step identified by slug may be served.
//
// A nil workflow or an empty slug addresses no step and yields an empty
// [Decision]. When the step is missing, inactive or inaccessible, Resolve
// scans the full ordered sequence from the end and redirects to the last step
// that is both accessible and active.
func Resolve[C any](w *workflow.Workflow[C], slug string) (Decision[C], error) {
	if w == nil || slug == "" {
		return Decision[C]{}, nil
	}

	if step, ok := w.Step(slug); ok && step.IsActive() && step.IsAccessible() {
		return Decision[C]{Current: step}, nil
	}

	if target, ok := Current(w); ok {
		return Decision[C]{Redirect: target}, nil
	}
	return Decision[C]{}, ErrNoAccessibleStep
}

// SuccessTarget returns the step to continue with after step was submitted.
//
// A step with validation errors sends the user back to itself. Otherwise the
// next active step is returned, or [ErrWorkflowComplete] when there is none.
func SuccessTarget[C any](step *workflow.Step[C]) (*workflow.Step[C], error) {
	if len(step.Errors()) > 0 {
		return step, nil
	}
	next := step.NextStep()
	if next == nil {
		return nil, ErrWorkflowComplete
	}
	return next, nil
}
