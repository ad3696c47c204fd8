package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Collection is a record set persisted as a whole-file JSON array. Load never
// fails: a missing file, unreadable content or anything that is not a JSON
// array yields an empty slice. Save replaces the entire file. No locking is
// done here; callers own the read-modify-write ordering.
type Collection[T any] struct {
	path string
}

// NewCollection creates a collection backed by the given file path.
func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// Load reads all records. Returns an empty slice if the file is absent or its
// content is not a valid JSON array.
func (c *Collection[T]) Load() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return []T{}
	}
	return items
}

// Save serializes the full record set, replacing the file content.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// NextID computes the next record id as max existing id + 1 at the moment of
// the read. Ids are never reused but are not reserved either, so concurrent
// writers can race (a documented limitation of the flat-file store).
func NextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
