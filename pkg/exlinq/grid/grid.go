// Package grid defines the worksheet capabilities the mapping engine needs
// from a spreadsheet backend. Coordinates are 1-based.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinates indicates a row or column outside the grid.
var ErrInvalidCoordinates = errors.New("invalid cell coordinates")

// Worksheet is a single sheet of cells.
type Worksheet interface {
	// Name returns the worksheet name.
	Name() string
	// UsedRange returns the bounding box of non-empty cells, or false when
	// the worksheet holds no values.
	UsedRange() (Range, bool, error)
	// Value returns the native value of a cell: nil, string, float64, bool,
	// time.Time or whatever the backend stores natively.
	Value(row, col int) (any, error)
	// Text returns the display text of a cell.
	Text(row, col int) (string, error)
	// SetValue stores a native value. A nil value clears the cell.
	SetValue(row, col int, v any) error
	// SetFormula stores a formula.
	SetFormula(row, col int, formula string) error
}

// Workbook is an ordered set of worksheets.
type Workbook interface {
	Worksheets() ([]Worksheet, error)
	// AddWorksheet appends a new, empty worksheet.
	AddWorksheet(name string) (Worksheet, error)
}

// IsEmptyValue reports whether v represents an empty cell.
func IsEmptyValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

func checkCoordinates(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row %d, column %d", ErrInvalidCoordinates, row, col)
	}
	return nil
}
