package xlsx

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/xuri/excelize/v2"
)

// Worksheet adapts one sheet of an excelize file to grid.Worksheet.
type Worksheet struct {
	file *excelize.File
	name string
}

func (s *Worksheet) Name() string { return s.name }

// File returns the excelize file owning the worksheet.
func (s *Worksheet) File() *excelize.File { return s.file }

// UsedRange returns the bounding box of non-empty cells.
func (s *Worksheet) UsedRange() (grid.Range, bool, error) {
	rows, err := s.file.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return grid.Range{}, false, err
	}

	r1, c1, r2, c2, ok := usedBounds(rows)
	if !ok {
		return grid.Range{}, false, nil
	}
	return grid.NewRange(s, r1, c1, r2, c2), true, nil
}

// Value returns nil for empty cells, bool for boolean cells, float64 for
// numbers, time.Time for ISO date cells and string otherwise.
func (s *Worksheet) Value(row, col int) (any, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	raw, err := s.file.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return nil, err
	}
	typ, err := s.file.GetCellType(s.name, cell)
	if err != nil {
		return nil, err
	}
	return parseValue(typ, raw), nil
}

// Text returns the formatted display text of a cell.
func (s *Worksheet) Text(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return s.file.GetCellValue(s.name, cell)
}

func (s *Worksheet) SetValue(row, col int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellValue(s.name, cell, v)
}

func (s *Worksheet) SetFormula(row, col int, formula string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellFormula(s.name, cell, strings.TrimPrefix(formula, "="))
}

// parseValue converts a raw cell string to its native type.
func parseValue(typ excelize.CellType, raw string) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// usedBounds returns the 1-based bounding box of the non-empty cells in
// rows as returned by GetRows.
func usedBounds(rows [][]string) (r1, c1, r2, c2 int, ok bool) {
	for i, row := range rows {
		first := slices.IndexFunc(row, func(v string) bool { return v != "" })
		if first < 0 {
			continue
		}
		last := len(row) - 1
		for row[last] == "" {
			last--
		}
		if !ok {
			r1, c1, c2, ok = i+1, first+1, last+1, true
		}
		r2 = i + 1
		c1, c2 = min(c1, first+1), max(c2, last+1)
	}
	return
}
