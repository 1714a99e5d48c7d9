package grid

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a rectangular block of cells on a worksheet. Bounds are
// absolute worksheet coordinates, inclusive.
type Range struct {
	Sheet    Worksheet
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// NewRange returns the range between two corners.
func NewRange(ws Worksheet, r1, c1, r2, c2 int) Range {
	return Range{Sheet: ws, StartRow: r1, StartCol: c1, EndRow: r2, EndCol: c2}
}

// CellAt returns the single-cell range at row, col.
func CellAt(ws Worksheet, row, col int) Range {
	return NewRange(ws, row, col, row, col)
}

// Rows returns the height of the range.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Columns returns the width of the range.
func (r Range) Columns() int { return r.EndCol - r.StartCol + 1 }

// Cell returns the cell at row, col relative to the top-left corner (1-based).
func (r Range) Cell(row, col int) Range {
	return CellAt(r.Sheet, r.StartRow+row-1, r.StartCol+col-1)
}

// Sub returns the block between two corners relative to the top-left corner (1-based).
func (r Range) Sub(r1, c1, r2, c2 int) Range {
	return NewRange(r.Sheet, r.StartRow+r1-1, r.StartCol+c1-1, r.StartRow+r2-1, r.StartCol+c2-1)
}

// Row returns the whole i-th row of the range (1-based).
func (r Range) Row(i int) Range {
	return r.Sub(i, 1, i, r.Columns())
}

// Address returns the A1-style reference of the range, e.g. "B2" or "A1:D10".
func (r Range) Address() string {
	start, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return fmt.Sprintf("R%dC%d", r.StartRow, r.StartCol)
	}
	if r.StartRow == r.EndRow && r.StartCol == r.EndCol {
		return start
	}
	end, err := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err != nil {
		return fmt.Sprintf("%s:R%dC%d", start, r.EndRow, r.EndCol)
	}
	return start + ":" + end
}

func (r Range) String() string {
	if r.Sheet == nil {
		return r.Address()
	}
	return fmt.Sprintf("'%s'!%s", r.Sheet.Name(), r.Address())
}

// Value returns the native value of the top-left cell.
func (r Range) Value() (any, error) {
	return r.Sheet.Value(r.StartRow, r.StartCol)
}

// Text returns the display text of the top-left cell.
func (r Range) Text() (string, error) {
	return r.Sheet.Text(r.StartRow, r.StartCol)
}

// SetValue stores v into every cell of the range.
func (r Range) SetValue(v any) error {
	return r.each(func(row, col int) error { return r.Sheet.SetValue(row, col, v) })
}

// SetFormula stores formula into every cell of the range.
func (r Range) SetFormula(formula string) error {
	return r.each(func(row, col int) error { return r.Sheet.SetFormula(row, col, formula) })
}

// IsEmpty reports whether every cell of the range is empty.
func (r Range) IsEmpty() (bool, error) {
	empty := true
	err := r.each(func(row, col int) error {
		v, err := r.Sheet.Value(row, col)
		if err != nil {
			return err
		}
		if !IsEmptyValue(v) {
			empty = false
		}
		return nil
	})
	return empty, err
}

func (r Range) each(fn func(row, col int) error) error {
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			if err := fn(row, col); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseRange parses a reference like "$A$1:$D$10" or "B2" into a range on ws.
func ParseRange(ws Worksheet, ref string) (Range, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
		}
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return NewRange(ws, startRow, startCol, endRow, endCol), nil
}
