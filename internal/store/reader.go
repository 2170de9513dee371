package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the store file location relative to the project root.
const DefaultPath = "data/brambling.yaml"

// LegacyPath is the root-level store location checked when DefaultPath is
// absent.
const LegacyPath = "brambling.yaml"

// Paths lists the paths to search (in priority order) when auto-discovering
// the store file.
var Paths = []string{
	DefaultPath,
	LegacyPath,
}

// Sentinel errors for record lookups.
var (
	// ErrEventNotFound is returned when no event has the requested slug.
	ErrEventNotFound = errors.New("event not found")

	// ErrOrderNotFound is returned when the event has no order with the
	// requested code.
	ErrOrderNotFound = errors.New("order not found")
)

// ResolvePath discovers the store file location.
//
// Resolution order:
//  1. BRAMBLING_STORE_PATH environment variable (used as-is if set)
//  2. Explicit storePath parameter (if non-empty)
//  3. Auto-discovery: tries DefaultPath, then LegacyPath under basePath
//  4. Falls back to DefaultPath (will error on read if file doesn't exist)
func ResolvePath(basePath, storePath string) string {
	if envPath := os.Getenv("BRAMBLING_STORE_PATH"); envPath != "" {
		return envPath
	}

	if storePath != "" {
		return storePath
	}

	for _, p := range Paths {
		fullPath := filepath.Join(basePath, p)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath
		}
	}

	return filepath.Join(basePath, DefaultPath)
}

// Reader reads events and orders from the store file.
//
// Use [NewReader] for auto-discovery or [NewReaderWithPath] for an explicit
// path. Every call reads the file again, so a reader never serves stale data.
type Reader struct {
	path string
}

// NewReader creates a [Reader] that auto-discovers the store file under
// basePath. Pass an empty string to use the current working directory.
func NewReader(basePath string) *Reader {
	return &Reader{
		path: ResolvePath(basePath, ""),
	}
}

// NewReaderWithPath creates a [Reader] for an explicit store file path.
// The BRAMBLING_STORE_PATH environment variable still takes priority if set.
func NewReaderWithPath(basePath, storePath string) *Reader {
	return &Reader{
		path: ResolvePath(basePath, storePath),
	}
}

// Path returns the resolved store file path.
func (r *Reader) Path() string {
	return r.path
}

// Read reads and parses the complete store document.
func (r *Reader) Read() (*Document, error) {
	return readDocument(r.path)
}

// Event returns the event with the given slug.
func (r *Reader) Event(slug string) (*Event, error) {
	doc, err := r.Read()
	if err != nil {
		return nil, err
	}
	return doc.event(slug)
}

// Order returns the event and the order identified by eventSlug and code.
func (r *Reader) Order(eventSlug, code string) (*Event, *Order, error) {
	doc, err := r.Read()
	if err != nil {
		return nil, nil, err
	}

	event, err := doc.event(eventSlug)
	if err != nil {
		return nil, nil, err
	}

	for i := range doc.Orders {
		o := &doc.Orders[i]
		if o.EventSlug == eventSlug && o.Code == code {
			return event, o, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s/%s", ErrOrderNotFound, eventSlug, code)
}

func (d *Document) event(slug string) (*Event, error) {
	for i := range d.Events {
		if d.Events[i].Slug == slug {
			return &d.Events[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, slug)
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	for _, o := range doc.Orders {
		for _, item := range o.Items {
			if !item.Status.IsValid() {
				return nil, fmt.Errorf("failed to read store: order %s item %s has invalid status %q", o.Code, item.ID, item.Status)
			}
		}
	}

	return &doc, nil
}
