// Package manifest reads checkout step manifest files.
//
// A step manifest lets an organizer reorder, rename, relocate or switch off
// the steps of the registration workflow without a code change. Rows are in
// workflow order; the first row is the first step.
//
// CSV format:
//
//	slug,name,location,enabled
//	shop,Tickets,/events/:event_slug/orders/:order_code/shop,true
//	attendees,Who's coming,/events/:event_slug/orders/:order_code/attendees,true
//	housing,Housing,/events/:event_slug/orders/:order_code/housing,true
//	survey,Survey,/events/:event_slug/orders/:order_code/survey,false
//	payment,Payment,/events/:event_slug/orders/:order_code/payment,true
//
// Only the slug column is required. Empty name or location cells keep the
// built-in values, and a missing enabled column means every row is enabled.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// StepEntry represents a single row in the step manifest CSV.
type StepEntry struct {
	// Slug identifies the built-in step this row configures.
	Slug string

	// Name overrides the step's display name when non-empty.
	Name string

	// Location overrides the step's location when non-empty.
	Location string

	// Enabled is false when the organizer switched the step off.
	Enabled bool
}

// Manifest holds all step entries parsed from a manifest CSV file.
type Manifest struct {
	// Entries are the step entries in workflow order.
	Entries []StepEntry
}

// ReadFromFile reads and parses a step manifest CSV file.
func ReadFromFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return readFromReader(f)
}

// ReadFromString parses a step manifest from a CSV string.
func ReadFromString(data string) (*Manifest, error) {
	return readFromReader(strings.NewReader(data))
}

func readFromReader(r io.Reader) (*Manifest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	if err := validateColumns(colIndex); err != nil {
		return nil, err
	}

	var entries []StepEntry
	seen := make(map[string]int)
	lineNum := 1 // header was line 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest line %d: %w", lineNum, err)
		}

		entry := StepEntry{
			Slug:     getField(record, colIndex, "slug"),
			Name:     getField(record, colIndex, "name"),
			Location: getField(record, colIndex, "location"),
			Enabled:  true,
		}

		if entry.Slug == "" {
			return nil, fmt.Errorf("manifest line %d: step slug is required", lineNum)
		}
		if first, dup := seen[entry.Slug]; dup {
			return nil, fmt.Errorf("manifest line %d: step %q already listed on line %d", lineNum, entry.Slug, first)
		}
		seen[entry.Slug] = lineNum

		if raw := getField(record, colIndex, "enabled"); raw != "" {
			enabled, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("manifest line %d: invalid enabled value %q", lineNum, raw)
			}
			entry.Enabled = enabled
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("manifest contains no step entries")
	}

	return &Manifest{Entries: entries}, nil
}

// requiredColumns are the columns that must be present in the manifest CSV.
var requiredColumns = []string{"slug"}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func validateColumns(colIndex map[string]int) error {
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("manifest missing required column: %s", col)
		}
	}
	return nil
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Slugs returns the step slugs in workflow order, enabled or not.
func (m *Manifest) Slugs() []string {
	slugs := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		slugs[i] = e.Slug
	}
	return slugs
}
