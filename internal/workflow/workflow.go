// Package workflow provides the step state machine behind brambling's
// multi-page wizards.
//
// A [Workflow] is an ordered, filtered sequence of [Step] values built from a
// static list of [Definition] entries. Each step is gated on completion of the
// previous active step, which makes completion a prefix property: a step is
// only completed when every active step before it is completed too.
//
// Key types:
//   - [Workflow] owns the ordered steps and the per-operation memo cache
//   - [Step] answers activity, accessibility and completion questions
//   - [Definition] describes one step kind in a registry
//   - [Behavior], [Validator] and [Activator] are the per-kind predicates
//
// Workflows are built fresh for each logical operation (one HTTP request, one
// CLI invocation). Completion and validation results are memoized on the
// workflow, so a workflow must not be kept across operations; call
// [Workflow.Reset] if one is reused.
package workflow

import (
	"fmt"
)

// Workflow is the ordered collection of steps governing one multi-step
// process instance.
//
// The slice of steps is the canonical order. The slug index is a secondary
// lookup structure built from it.
type Workflow[C any] struct {
	ctx   C
	steps []*Step[C]
	index map[string]*Step[C]
	memo  *memo
}

// New builds a [Workflow] from an ordered list of definitions.
//
// Definitions whose Include predicate rejects ctx are skipped. Included steps
// receive dense, zero-based indices in the filtered order, so gaps left by
// excluded definitions are not represented.
//
// Returns [ErrInvalidDefinition] for an empty slug or a missing behavior and
// [ErrDuplicateSlug] when two included definitions share a slug. No workflow
// is returned on error.
func New[C any](defs []Definition[C], ctx C) (*Workflow[C], error) {
	w := &Workflow[C]{
		ctx:   ctx,
		index: make(map[string]*Step[C], len(defs)),
		memo:  newMemo(),
	}

	for _, def := range defs {
		if def.Slug == "" {
			return nil, fmt.Errorf("%w: step %q has no slug", ErrInvalidDefinition, def.Name)
		}
		if def.Behavior == nil {
			return nil, fmt.Errorf("%w: step %q has no completion behavior", ErrInvalidDefinition, def.Slug)
		}
		if !def.includedIn(ctx) {
			continue
		}
		if _, exists := w.index[def.Slug]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, def.Slug)
		}

		step := &Step[C]{
			def:      def,
			index:    len(w.steps),
			workflow: w,
		}
		w.steps = append(w.steps, step)
		w.index[def.Slug] = step
	}

	return w, nil
}

// Context returns the contextual value the workflow was built with.
func (w *Workflow[C]) Context() C {
	return w.ctx
}

// Steps returns every included step in canonical order, active or not.
//
// The returned slice is a copy; reordering it does not affect the workflow.
func (w *Workflow[C]) Steps() []*Step[C] {
	steps := make([]*Step[C], len(w.steps))
	copy(steps, w.steps)
	return steps
}

// Step returns the step with the given slug.
func (w *Workflow[C]) Step(slug string) (*Step[C], bool) {
	step, ok := w.index[slug]
	return step, ok
}

// Len returns the number of included steps.
func (w *Workflow[C]) Len() int {
	return len(w.steps)
}

// ActiveSteps returns, in order, every step whose [Step.IsActive] is true.
//
// The result is recomputed on every call because activity may depend on
// external state that changes while the workflow is alive.
func (w *Workflow[C]) ActiveSteps() []*Step[C] {
	var active []*Step[C]
	for _, step := range w.steps {
		if step.IsActive() {
			active = append(active, step)
		}
	}
	return active
}

// Reset drops all memoized completion and validation results.
func (w *Workflow[C]) Reset() {
	w.memo = newMemo()
}
