package xlsx

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/xuri/excelize/v2"
)

func TestWorksheetValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	require.NoError(t, f.SetCellValue(sheetName, "B2", "Header1"))
	require.NoError(t, f.SetCellValue(sheetName, "C2", "123"))
	require.NoError(t, f.SetCellValue(sheetName, "B3", 100))
	require.NoError(t, f.SetCellValue(sheetName, "C3", 200.5))
	require.NoError(t, f.SetCellValue(sheetName, "B4", true))
	require.NoError(t, f.SetCellValue(sheetName, "D5", false))

	// Save and reopen
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(tmpFile))

	wb, err := Open(tmpFile)
	require.NoError(t, err)
	defer wb.Close()

	sheets, err := wb.Worksheets()
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	ws := sheets[0]
	assert.Equal(t, sheetName, ws.Name())

	used, ok, err := ws.UsedRange()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B2:D5", used.Address())

	tests := []struct {
		cell string
		want any
	}{
		{"B2", "Header1"},
		{"C2", "123"},
		{"B3", 100.0},
		{"C3", 200.5},
		{"B4", true},
		{"D5", false},
		{"A1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			col, row, err := excelize.CellNameToCoordinates(tt.cell)
			require.NoError(t, err)
			got, err := ws.Value(row, col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	text, err := ws.Text(3, 3)
	require.NoError(t, err)
	assert.Equal(t, "200.5", text)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ  excelize.CellType
		raw  string
		want any
	}{
		{excelize.CellTypeUnset, "123", 123.0},
		{excelize.CellTypeNumber, "-1.5", -1.5},
		{excelize.CellTypeSharedString, "123", "123"},
		{excelize.CellTypeInlineString, "hello", "hello"},
		{excelize.CellTypeBool, "1", true},
		{excelize.CellTypeBool, "0", false},
		{excelize.CellTypeError, "#DIV/0!", "#DIV/0!"},
		{excelize.CellTypeUnset, "text", "text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.typ, tt.raw))
	}
}

func TestUsedBounds(t *testing.T) {
	tests := []struct {
		name           string
		rows           [][]string
		r1, c1, r2, c2 int
		ok             bool
	}{
		{"empty", nil, 0, 0, 0, 0, false},
		{"blank cells only", [][]string{{"", ""}, {}}, 0, 0, 0, 0, false},
		{"ragged rows", [][]string{{}, {"", "", "x"}, {"", "y", "", "z", ""}}, 2, 2, 3, 4, true},
		{"blank row between", [][]string{{"a"}, {}, {"", "b"}}, 1, 1, 3, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r1, c1, r2, c2, ok := usedBounds(tt.rows)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, []int{tt.r1, tt.c1, tt.r2, tt.c2}, []int{r1, c1, r2, c2})
		})
	}
}

func TestAddWorksheetReplacesDefaultSheet(t *testing.T) {
	wb := New()
	defer wb.Close()

	first, err := wb.AddWorksheet("Orders")
	require.NoError(t, err)
	_, err = wb.AddWorksheet("Customers")
	require.NoError(t, err)
	_, err = wb.AddWorksheet("orders")
	assert.Error(t, err)

	assert.Equal(t, []string{"Orders", "Customers"}, wb.File().GetSheetList())

	require.NoError(t, first.SetValue(1, 1, "Id"))
	require.NoError(t, first.SetValue(2, 1, 7.0))
	require.NoError(t, first.SetFormula(3, 1, "=SUM(A2:A2)"))
	formula, err := wb.File().GetCellFormula("Orders", "A3")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A2:A2)", formula)

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	back, err := OpenReader(&buf)
	require.NoError(t, err)
	defer back.Close()
	ws, ok := back.Sheet("ORDERS")
	require.True(t, ok)
	v, err := ws.Value(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = OpenReader(bytes.NewReader([]byte("not a zip")))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestStyleHelpers(t *testing.T) {
	wb := New()
	defer wb.Close()
	ws, err := wb.AddWorksheet("Data")
	require.NoError(t, err)

	r := grid.NewRange(ws, 1, 1, 3, 2)
	require.NoError(t, r.SetValue(1.5))
	require.NoError(t, SetNumberFormat(r, "0.00"))
	require.NoError(t, Bold(r.Row(1)))
	require.NoError(t, SetColumnWidth(r, 18))

	text, err := ws.Text(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "1.50", text)

	width, err := wb.File().GetColWidth("Data", "B")
	require.NoError(t, err)
	assert.Equal(t, 18.0, width)

	mem := grid.NewMemoryWorksheet("m")
	assert.ErrorIs(t, Bold(grid.CellAt(mem, 1, 1)), ErrNotExcelize)
}
