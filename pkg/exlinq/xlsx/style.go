package xlsx

import (
	"fmt"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/xuri/excelize/v2"
)

func worksheetOf(r grid.Range) (*Worksheet, error) {
	ws, ok := r.Sheet.(*Worksheet)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotExcelize, r.Sheet)
	}
	return ws, nil
}

func corners(r grid.Range) (string, string, error) {
	top, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return "", "", err
	}
	bottom, err := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err != nil {
		return "", "", err
	}
	return top, bottom, nil
}

// SetStyle applies style to every cell of r, replacing any previous style.
func SetStyle(r grid.Range, style *excelize.Style) error {
	ws, err := worksheetOf(r)
	if err != nil {
		return err
	}
	top, bottom, err := corners(r)
	if err != nil {
		return err
	}
	id, err := ws.file.NewStyle(style)
	if err != nil {
		return err
	}
	return ws.file.SetCellStyle(ws.name, top, bottom, id)
}

// SetNumberFormat applies a custom number format such as "yyyy-mm-dd" or "#,##0.00".
func SetNumberFormat(r grid.Range, format string) error {
	return SetStyle(r, &excelize.Style{CustomNumFmt: &format})
}

// Bold renders the cells of r in a bold font.
func Bold(r grid.Range) error {
	return SetStyle(r, &excelize.Style{Font: &excelize.Font{Bold: true}})
}

// SetColumnWidth sets the width of every column spanned by r.
func SetColumnWidth(r grid.Range, width float64) error {
	ws, err := worksheetOf(r)
	if err != nil {
		return err
	}
	start, err := excelize.ColumnNumberToName(r.StartCol)
	if err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(r.EndCol)
	if err != nil {
		return err
	}
	return ws.file.SetColWidth(ws.name, start, end, width)
}
