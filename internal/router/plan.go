package router

import "brambling/internal/workflow"

// StepState is a snapshot of one step's routing-relevant state.
type StepState struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Index      int      `json:"index"`
	Active     bool     `json:"active"`
	Accessible bool     `json:"accessible"`
	Completed  bool     `json:"completed"`
	Errors     []string `json:"errors,omitempty"`
}

// Plan returns the state of every step in canonical order, inactive steps
// included. It provides dry-run preview functionality: nothing is written
// and no step is visited.
func Plan[C any](w *workflow.Workflow[C]) []StepState {
	steps := w.Steps()
	states := make([]StepState, len(steps))
	for i, step := range steps {
		states[i] = State(step)
	}
	return states
}

// State returns the snapshot of a single step.
func State[C any](step *workflow.Step[C]) StepState {
	state := StepState{
		Slug:       step.Slug(),
		Name:       step.Name(),
		Location:   step.Location(),
		Index:      step.Index(),
		Active:     step.IsActive(),
		Accessible: step.IsAccessible(),
		Completed:  step.IsCompleted(),
	}
	for _, err := range step.Errors() {
		state.Errors = append(state.Errors, err.Error())
	}
	return state
}

// Current returns the last active and accessible step, the one a user
// resuming the workflow should land on. Returns false if there is none.
func Current[C any](w *workflow.Workflow[C]) (*workflow.Step[C], bool) {
	steps := w.Steps()
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].IsAccessible() && steps[i].IsActive() {
			return steps[i], true
		}
	}
	return nil, false
}
