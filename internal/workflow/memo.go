package workflow

// memo holds per-step results keyed by step index. It lives on the workflow
// so that dropping the workflow, or calling Reset, drops every cached result.
type memo struct {
	completed map[int]bool
	errors    map[int][]error
}

func newMemo() *memo {
	return &memo{
		completed: make(map[int]bool),
		errors:    make(map[int][]error),
	}
}
