// Package checkout defines brambling's registration workflow: the wizard an
// attendee group walks through to buy passes for an event.
//
// The built-in step order is shop, attendees, housing, survey, payment.
// Housing and survey are only part of the workflow when the event collects
// that data, and housing is skipped at runtime when nobody on the order needs
// it. A step [manifest.Manifest] can reorder, rename or switch off steps.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"brambling/internal/manifest"
	"brambling/internal/store"
	"brambling/internal/workflow"
)

// Step slugs.
const (
	StepShop      = "shop"
	StepAttendees = "attendees"
	StepHousing   = "housing"
	StepSurvey    = "survey"
	StepPayment   = "payment"
)

// ErrUnknownStep is returned when a manifest names a step that has no
// built-in definition.
var ErrUnknownStep = errors.New("unknown checkout step")

// Context is the data the checkout steps consult. Build one per request from
// freshly loaded records.
type Context struct {
	Event *store.Event `mapstructure:"event"`
	Order *store.Order `mapstructure:"order"`

	// Now is used to decide whether reserved items have expired. A zero Now
	// disables the expiry check.
	Now time.Time `mapstructure:"now"`
}

// Workflow is a registration workflow.
type Workflow = workflow.Workflow[Context]

// Step is one page of a registration workflow.
type Step = workflow.Step[Context]

func locationFor(slug string) string {
	return "/events/:event_slug/orders/:order_code/" + slug
}

// builtins returns the built-in step definitions in canonical order.
func builtins() []workflow.Definition[Context] {
	return []workflow.Definition[Context]{
		{
			Slug:     StepShop,
			Name:     "Shop",
			Location: locationFor(StepShop),
			Behavior: shopStep{},
		},
		{
			Slug:     StepAttendees,
			Name:     "Attendees",
			Location: locationFor(StepAttendees),
			Behavior: attendeesStep{},
		},
		{
			Slug:     StepHousing,
			Name:     "Housing",
			Location: locationFor(StepHousing),
			Include:  func(ctx Context) bool { return ctx.Event != nil && ctx.Event.CollectHousingData },
			Behavior: housingStep{},
		},
		{
			Slug:     StepSurvey,
			Name:     "Survey",
			Location: locationFor(StepSurvey),
			Include:  func(ctx Context) bool { return ctx.Event != nil && ctx.Event.CollectSurveyData },
			Behavior: surveyStep{},
		},
		{
			Slug:     StepPayment,
			Name:     "Payment",
			Location: locationFor(StepPayment),
			Behavior: paymentStep{},
		},
	}
}

// Definitions returns the registration step definitions.
//
// With a nil manifest the built-in order is used. Otherwise the manifest's
// row order wins, disabled rows and unlisted steps are left out, and
// non-empty names and locations override the built-in ones.
func Definitions(m *manifest.Manifest) ([]workflow.Definition[Context], error) {
	defs := builtins()
	if m == nil {
		return defs, nil
	}

	bySlug := make(map[string]workflow.Definition[Context], len(defs))
	for _, def := range defs {
		bySlug[def.Slug] = def
	}

	var ordered []workflow.Definition[Context]
	for _, entry := range m.Entries {
		def, ok := bySlug[entry.Slug]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, entry.Slug)
		}
		if !entry.Enabled {
			continue
		}
		if entry.Name != "" {
			def.Name = entry.Name
		}
		if entry.Location != "" {
			def.Location = entry.Location
		}
		ordered = append(ordered, def)
	}
	return ordered, nil
}

// New builds a registration workflow for ctx.
func New(ctx Context, m *manifest.Manifest) (*Workflow, error) {
	defs, err := Definitions(m)
	if err != nil {
		return nil, err
	}
	return workflow.New(defs, ctx)
}

// NewFromAttributes builds a registration workflow from loose attributes
// (event, order, now). See [workflow.NewFromAttributes].
func NewFromAttributes(attrs map[string]any, m *manifest.Manifest) (*Workflow, error) {
	defs, err := Definitions(m)
	if err != nil {
		return nil, err
	}
	return workflow.NewFromAttributes(defs, attrs)
}
