package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ReservedAttribute is the attribute name that can never be supplied as
// workflow context.
const ReservedAttribute = "steps"

// NewFromAttributes decodes loose key/value attributes into the typed context
// C and builds a [Workflow] from it.
//
// Attribute keys are matched against the `mapstructure` tags of C. The key
// [ReservedAttribute] is rejected with [ErrReservedAttribute] and keys that do
// not match a field of C are rejected with [ErrUnknownAttribute]. In both
// cases no workflow is created.
func NewFromAttributes[C any](defs []Definition[C], attrs map[string]any) (*Workflow[C], error) {
	if _, ok := attrs[ReservedAttribute]; ok {
		return nil, fmt.Errorf("%w: %q can't be passed as a context attribute", ErrReservedAttribute, ReservedAttribute)
	}

	var ctx C
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &ctx,
		Metadata: &md,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attribute decoder: %w", err)
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, fmt.Errorf("failed to decode workflow attributes: %w", err)
	}

	if len(md.Unused) > 0 {
		unused := append([]string(nil), md.Unused...)
		sort.Strings(unused)
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, strings.Join(unused, ", "))
	}

	return New(defs, ctx)
}
