package exlinq

import (
	"fmt"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
)

// Inspect summarizes the layout of wb. When m is not nil each worksheet
// is matched against the model sheets the way ReadFile matches them.
func Inspect(bookName string, wb grid.Workbook, m *models.ExcelModel) (*models.WorkbookSummary, error) {
	if wb == nil {
		return nil, ErrArgumentNil
	}
	worksheets, err := wb.Worksheets()
	if err != nil {
		return nil, err
	}

	summary := &models.WorkbookSummary{
		BookName: bookName,
		Sheets:   make([]models.SheetSummary, 0, len(worksheets)),
	}
	for i, ws := range worksheets {
		sheet, err := summarizeSheet(ws)
		if err != nil {
			return nil, fmt.Errorf("worksheet %q: %w", ws.Name(), err)
		}
		if m != nil {
			if s, ok := matchSheet(m, ws.Name(), i); ok {
				sheet.Matched = s.Name()
			}
		}
		summary.Sheets = append(summary.Sheets, sheet)
	}
	return summary, nil
}

func summarizeSheet(ws grid.Worksheet) (models.SheetSummary, error) {
	sheet := models.SheetSummary{Name: ws.Name()}
	used, ok, err := ws.UsedRange()
	if err != nil || !ok {
		return sheet, err
	}

	sheet.UsedRange = &models.Area{
		R1:  used.StartRow,
		C1:  used.StartCol,
		R2:  used.EndRow,
		C2:  used.EndCol,
		Ref: used.Address(),
	}
	sheet.DataRows = used.Rows() - 1

	header := used.Row(1)
	for col := 1; col <= header.Columns(); col++ {
		text, err := header.Cell(1, col).Text()
		if err != nil {
			return sheet, err
		}
		sheet.Headers = append(sheet.Headers, text)
	}
	return sheet, nil
}

func matchSheet(m *models.ExcelModel, name string, position int) (*models.SheetModel, bool) {
	if m.IgnoreSheetNames() {
		if position < m.Sheets().Len() {
			return m.Sheets().At(position), true
		}
		return nil, false
	}
	return m.Sheets().TryGet(name)
}
