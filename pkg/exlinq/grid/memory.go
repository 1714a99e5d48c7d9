package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type cellKey struct{ row, col int }

type memoryCell struct {
	value   any
	formula string
}

// MemoryWorksheet is a worksheet held entirely in memory. It backs CSV
// input and tests.
type MemoryWorksheet struct {
	name  string
	cells map[cellKey]memoryCell
}

// NewMemoryWorksheet creates an empty worksheet.
func NewMemoryWorksheet(name string) *MemoryWorksheet {
	return &MemoryWorksheet{name: name, cells: make(map[cellKey]memoryCell)}
}

func (s *MemoryWorksheet) Name() string { return s.name }

func (s *MemoryWorksheet) UsedRange() (Range, bool, error) {
	minRow, maxRow, minCol, maxCol := -1, -1, -1, -1
	for k, c := range s.cells {
		if IsEmptyValue(c.value) && c.formula == "" {
			continue
		}
		if minRow < 0 || k.row < minRow {
			minRow = k.row
		}
		if maxRow < 0 || k.row > maxRow {
			maxRow = k.row
		}
		if minCol < 0 || k.col < minCol {
			minCol = k.col
		}
		if maxCol < 0 || k.col > maxCol {
			maxCol = k.col
		}
	}
	if minRow < 0 {
		return Range{}, false, nil
	}
	return NewRange(s, minRow, minCol, maxRow, maxCol), true, nil
}

func (s *MemoryWorksheet) Value(row, col int) (any, error) {
	if err := checkCoordinates(row, col); err != nil {
		return nil, err
	}
	return s.cells[cellKey{row, col}].value, nil
}

// Text renders the cell value the way a spreadsheet shows unformatted values.
func (s *MemoryWorksheet) Text(row, col int) (string, error) {
	v, err := s.Value(row, col)
	if err != nil {
		return "", err
	}
	return FormatValue(v), nil
}

func (s *MemoryWorksheet) SetValue(row, col int, v any) error {
	if err := checkCoordinates(row, col); err != nil {
		return err
	}
	k := cellKey{row, col}
	if v == nil {
		delete(s.cells, k)
		return nil
	}
	s.cells[k] = memoryCell{value: v}
	return nil
}

func (s *MemoryWorksheet) SetFormula(row, col int, formula string) error {
	if err := checkCoordinates(row, col); err != nil {
		return err
	}
	s.cells[cellKey{row, col}] = memoryCell{formula: strings.TrimPrefix(formula, "=")}
	return nil
}

// Formula returns the formula stored at row, col, if any.
func (s *MemoryWorksheet) Formula(row, col int) string {
	return s.cells[cellKey{row, col}].formula
}

// SetRow stores values left to right starting at column 1.
func (s *MemoryWorksheet) SetRow(row int, values ...any) error {
	for i, v := range values {
		if err := s.SetValue(row, i+1, v); err != nil {
			return err
		}
	}
	return nil
}

// FormatValue renders a native cell value as display text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.DateTime)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// MemoryWorkbook is an ordered set of in-memory worksheets.
type MemoryWorkbook struct {
	sheets []*MemoryWorksheet
}

func NewMemoryWorkbook(sheets ...*MemoryWorksheet) *MemoryWorkbook {
	return &MemoryWorkbook{sheets: sheets}
}

func (b *MemoryWorkbook) Worksheets() ([]Worksheet, error) {
	out := make([]Worksheet, len(b.sheets))
	for i, s := range b.sheets {
		out[i] = s
	}
	return out, nil
}

func (b *MemoryWorkbook) AddWorksheet(name string) (Worksheet, error) {
	if _, ok := b.Sheet(name); ok {
		return nil, fmt.Errorf("worksheet %q already exists", name)
	}
	s := NewMemoryWorksheet(name)
	b.sheets = append(b.sheets, s)
	return s, nil
}

// Sheet returns the worksheet named name, compared case-insensitively.
func (b *MemoryWorkbook) Sheet(name string) (*MemoryWorksheet, bool) {
	for _, s := range b.sheets {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return nil, false
}
