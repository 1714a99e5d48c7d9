package models

import "github.com/ukaji3/exlinq-go/pkg/exlinq/grid"

// Accessor reads and writes one member of a record. The record is always a
// pointer to the sheet's record type.
type Accessor interface {
	Get(record any) (any, error)
	Set(record any, value any) error
}

// ReadSerializer converts a single non-empty cell into a column value.
type ReadSerializer func(cell grid.Range) (any, error)

// WriteSerializer stores a column value into a single cell.
type WriteSerializer func(cell grid.Range, value any) error

// RangeHook formats or polishes a written range.
type RangeHook func(r grid.Range) error

// RangeLocator finds the region of a worksheet to read from or the anchor
// cell to write at. It reports false when there is no such region.
type RangeLocator func(ws grid.Worksheet) (grid.Range, bool, error)
