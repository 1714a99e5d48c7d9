package exlinq

import (
	"fmt"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
)

// HeaderLocator returns a read locator that skips preamble rows. The
// region starts at the first row holding a cell whose text matches header
// and extends to the end of the used range.
func HeaderLocator(header string) models.RangeLocator {
	want := models.NormalizeName(header)
	return func(ws grid.Worksheet) (grid.Range, bool, error) {
		used, ok, err := ws.UsedRange()
		if err != nil || !ok {
			return grid.Range{}, false, err
		}
		for row := used.StartRow; row <= used.EndRow; row++ {
			for col := used.StartCol; col <= used.EndCol; col++ {
				text, err := ws.Text(row, col)
				if err != nil {
					return grid.Range{}, false, err
				}
				if want != "" && models.NormalizeName(text) == want {
					return grid.NewRange(ws, row, used.StartCol, used.EndRow, used.EndCol), true, nil
				}
			}
		}
		return grid.Range{}, false, nil
	}
}

// FixedLocator returns a locator for a fixed reference such as "B3:F20".
// As a write locator only its top-left cell matters.
func FixedLocator(ref string) models.RangeLocator {
	return func(ws grid.Worksheet) (grid.Range, bool, error) {
		r, err := grid.ParseRange(ws, ref)
		if err != nil {
			return grid.Range{}, false, err
		}
		return r, true, nil
	}
}

// ColumnTotal returns a column polisher writing a SUM formula of the data
// cells into the cell below the column.
func ColumnTotal() func(grid.Range) error {
	return func(r grid.Range) error {
		if r.Rows() < 2 {
			return nil
		}
		data := r.Sub(2, 1, r.Rows(), 1)
		return r.Cell(r.Rows()+1, 1).SetFormula(fmt.Sprintf("SUM(%s)", data.Address()))
	}
}
