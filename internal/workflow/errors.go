package workflow

import "errors"

// Configuration errors. These signal a setup mistake by the integrator and are
// never retried.
var (
	// ErrReservedAttribute is returned when a contextual attribute uses a
	// name reserved by the workflow itself.
	ErrReservedAttribute = errors.New("reserved workflow attribute")

	// ErrUnknownAttribute is returned when a contextual attribute does not
	// match any field of the workflow's context type.
	ErrUnknownAttribute = errors.New("unknown workflow attribute")

	// ErrDuplicateSlug is returned when two included steps share a slug.
	ErrDuplicateSlug = errors.New("duplicate step slug")

	// ErrInvalidDefinition is returned for a step definition that cannot be
	// instantiated, such as one without a completion behavior.
	ErrInvalidDefinition = errors.New("invalid step definition")
)
