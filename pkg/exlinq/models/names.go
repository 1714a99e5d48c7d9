package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeName returns the lookup key for a sheet or column name:
// surrounding whitespace removed and case folded.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NameIndex maps case-insensitive, trim-normalized names to entities.
// Several names may point at the same entity; no two entities share a name.
type NameIndex[E any] struct {
	entries map[string]E
}

// NewNameIndex creates an empty index.
func NewNameIndex[E any]() *NameIndex[E] {
	return &NameIndex[E]{entries: make(map[string]E)}
}

// Add registers name for e.
func (x *NameIndex[E]) Add(name string, e E) error {
	key := NormalizeName(name)
	if key == "" {
		return ErrArgumentNil
	}
	if _, ok := x.entries[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, strings.TrimSpace(name))
	}
	x.entries[key] = e
	return nil
}

// Contains reports whether name is registered.
func (x *NameIndex[E]) Contains(name string) bool {
	_, ok := x.TryGet(name)
	return ok
}

// Get returns the entity registered under name.
func (x *NameIndex[E]) Get(name string) (E, error) {
	var zero E
	key := NormalizeName(name)
	if key == "" {
		return zero, ErrArgumentNil
	}
	e, ok := x.entries[key]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(name))
	}
	return e, nil
}

// TryGet returns the entity registered under name. Blank names are never found.
func (x *NameIndex[E]) TryGet(name string) (E, bool) {
	e, ok := x.entries[NormalizeName(name)]
	return e, ok
}

// Len returns the number of registered names.
func (x *NameIndex[E]) Len() int {
	return len(x.entries)
}
