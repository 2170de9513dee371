package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Writer persists changes to the store file.
type Writer struct {
	path string
}

// NewWriter creates a [Writer] that auto-discovers the store file under
// basePath, using the same rules as [NewReader].
func NewWriter(basePath string) *Writer {
	return &Writer{
		path: ResolvePath(basePath, ""),
	}
}

// NewWriterWithPath creates a [Writer] for an explicit store file path.
func NewWriterWithPath(basePath, storePath string) *Writer {
	return &Writer{
		path: ResolvePath(basePath, storePath),
	}
}

// SaveOrder replaces the stored order with the same event and code.
func (w *Writer) SaveOrder(order Order) error {
	doc, err := readDocument(w.path)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if !item.Status.IsValid() {
			return fmt.Errorf("invalid item status: %s", item.Status)
		}
	}

	for i := range doc.Orders {
		if doc.Orders[i].EventSlug == order.EventSlug && doc.Orders[i].Code == order.Code {
			doc.Orders[i] = order
			return w.write(doc)
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrOrderNotFound, order.EventSlug, order.Code)
}

// ClearExpiredCarts deletes reserved items from every order of the event
// whose cart has expired at now (see [Order.CartExpiredFor]). Events with no
// cart timeout are left alone.
//
// Returns the number of deleted items. The file is only rewritten when
// something was deleted.
func (w *Writer) ClearExpiredCarts(eventSlug string, now time.Time) (int, error) {
	doc, err := readDocument(w.path)
	if err != nil {
		return 0, err
	}

	event, err := doc.event(eventSlug)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range doc.Orders {
		o := &doc.Orders[i]
		if o.EventSlug != eventSlug || !o.CartExpiredFor(event, now) {
			continue
		}

		kept := o.Items[:0]
		for _, item := range o.Items {
			if item.Status == ItemReserved {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		o.Items = kept
	}

	if removed == 0 {
		return 0, nil
	}
	if err := w.write(doc); err != nil {
		return 0, err
	}
	return removed, nil
}

func (w *Writer) write(doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	// Write to a temp file, then rename over the original.
	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write store: %w", err)
	}

	return nil
}
