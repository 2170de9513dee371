package workflow

// Behavior is the completion predicate every step kind must supply.
//
// Completed reports whether the step's own criteria are satisfied, e.g. "every
// attendee record is filled in". It does not need to consider earlier steps;
// [Step.IsCompleted] adds the prefix rule.
type Behavior[C any] interface {
	Completed(ctx C) bool
}

// Validator is implemented by behaviors that can report validation errors.
//
// Errors are user-facing data, not failures: a non-empty result keeps the
// step from completing and sends the user back to it.
type Validator[C any] interface {
	Errors(ctx C) []error
}

// Activator is implemented by behaviors that can be switched off at runtime.
//
// An inactive step is skipped entirely, which is different from a step that is
// not completed yet.
type Activator[C any] interface {
	Active(ctx C) bool
}

// BehaviorFunc adapts a plain function to [Behavior].
type BehaviorFunc[C any] func(ctx C) bool

// Completed calls f(ctx).
func (f BehaviorFunc[C]) Completed(ctx C) bool {
	return f(ctx)
}

// Definition describes one step kind in a workflow registry.
type Definition[C any] struct {
	// Slug uniquely identifies the step within a workflow.
	Slug string

	// Name is the display name.
	Name string

	// Location identifies where the step is served. Callers resolve it into
	// a URL or route when redirecting.
	Location string

	// Include decides whether the step belongs in a workflow built for ctx.
	// A nil Include always includes the step.
	Include func(ctx C) bool

	// Behavior supplies the step's predicates. Required.
	Behavior Behavior[C]
}

func (d Definition[C]) includedIn(ctx C) bool {
	if d.Include == nil {
		return true
	}
	return d.Include(ctx)
}

// Step is one page of a workflow.
//
// Steps are created by [New] and are immutable apart from the memoized
// completion and validation results held by their workflow.
type Step[C any] struct {
	def      Definition[C]
	index    int
	workflow *Workflow[C]
}

// Slug returns the step's unique identifier.
func (s *Step[C]) Slug() string { return s.def.Slug }

// Name returns the step's display name.
func (s *Step[C]) Name() string { return s.def.Name }

// Location returns the step's target-location identifier.
func (s *Step[C]) Location() string { return s.def.Location }

// Index returns the step's zero-based position in the filtered sequence.
func (s *Step[C]) Index() int { return s.index }

// Workflow returns the workflow that owns the step.
func (s *Step[C]) Workflow() *Workflow[C] { return s.workflow }

// IsActive reports whether the step takes part in display and traversal.
// Steps whose behavior does not implement [Activator] are always active.
func (s *Step[C]) IsActive() bool {
	if a, ok := s.def.Behavior.(Activator[C]); ok {
		return a.Active(s.workflow.ctx)
	}
	return true
}

// PreviousStep returns the nearest active step before this one, or nil.
//
// It is recomputed on every call; activity can change between calls.
func (s *Step[C]) PreviousStep() *Step[C] {
	steps := s.workflow.steps
	for i := s.index - 1; i >= 0; i-- {
		if steps[i].IsActive() {
			return steps[i]
		}
	}
	return nil
}

// NextStep returns the nearest active step after this one, or nil.
func (s *Step[C]) NextStep() *Step[C] {
	steps := s.workflow.steps
	for i := s.index + 1; i < len(steps); i++ {
		if steps[i].IsActive() {
			return steps[i]
		}
	}
	return nil
}

// IsAccessible reports whether the step may be visited: there is no previous
// active step, or the previous active step is completed.
func (s *Step[C]) IsAccessible() bool {
	prev := s.PreviousStep()
	if prev == nil {
		return true
	}
	return prev.IsCompleted()
}

// IsCompleted reports whether the step's own criteria hold, it has no
// validation errors and the previous active step is completed as well.
//
// The own criteria are evaluated once per workflow and cached. The check on
// the previous step recurses through [Step.IsCompleted], so every hop of the
// active prefix is re-examined.
func (s *Step[C]) IsCompleted() bool {
	completed, ok := s.workflow.memo.completed[s.index]
	if !ok {
		completed = s.def.Behavior.Completed(s.workflow.ctx)
		s.workflow.memo.completed[s.index] = completed
	}
	if !completed || !s.IsValid() {
		return false
	}
	prev := s.PreviousStep()
	return prev == nil || prev.IsCompleted()
}

// Errors returns the step's validation errors. The result is cached on the
// workflow after the first call.
func (s *Step[C]) Errors() []error {
	if errs, ok := s.workflow.memo.errors[s.index]; ok {
		return errs
	}
	var errs []error
	if v, ok := s.def.Behavior.(Validator[C]); ok {
		errs = v.Errors(s.workflow.ctx)
	}
	s.workflow.memo.errors[s.index] = errs
	return errs
}

// IsValid reports whether the step has no validation errors.
func (s *Step[C]) IsValid() bool {
	return len(s.Errors()) == 0
}
