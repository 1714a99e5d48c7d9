package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeAddressing(t *testing.T) {
	ws := NewMemoryWorksheet("Data")
	r := NewRange(ws, 3, 2, 10, 5)

	assert.Equal(t, 8, r.Rows())
	assert.Equal(t, 4, r.Columns())
	assert.Equal(t, "B3:E10", r.Address())
	assert.Equal(t, "'Data'!B3:E10", r.String())

	cell := r.Cell(2, 3)
	assert.Equal(t, "D4", cell.Address())
	assert.Equal(t, 1, cell.Rows())
	assert.Equal(t, 1, cell.Columns())

	sub := r.Sub(2, 1, 8, 4)
	assert.Equal(t, "B4:E10", sub.Address())
	assert.Equal(t, "B5:E5", r.Row(3).Address())
}

func TestParseRange(t *testing.T) {
	ws := NewMemoryWorksheet("Data")
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"A1:D10", "A1:D10", false},
		{"$A$1:$D$10", "A1:D10", false},
		{"'Data'!$B$2:$C$3", "B2:C3", false},
		{"C5", "C5", false},
		{"D10:A1", "A1:D10", false},
		{"A1:B2:C3", "", true},
		{"nonsense", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r, err := ParseRange(ws, tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Address())
			assert.Same(t, ws, r.Sheet)
		})
	}
}

func TestMemoryWorksheetUsedRange(t *testing.T) {
	ws := NewMemoryWorksheet("Sheet1")
	_, ok, err := ws.UsedRange()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ws.SetValue(2, 3, "header"))
	require.NoError(t, ws.SetValue(5, 2, 1.5))
	require.NoError(t, ws.SetValue(7, 9, ""))

	r, ok, err := ws.UsedRange()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B2:C5", r.Address())

	require.NoError(t, ws.SetValue(5, 2, nil))
	r, ok, err = ws.UsedRange()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C2", r.Address())
}

func TestRangeValues(t *testing.T) {
	ws := NewMemoryWorksheet("Sheet1")
	r := NewRange(ws, 1, 1, 2, 2)

	empty, err := r.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, r.SetValue(true))
	empty, err = r.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	text, err := r.Cell(2, 2).Text()
	require.NoError(t, err)
	assert.Equal(t, "TRUE", text)

	require.NoError(t, r.Row(2).SetFormula("=SUM(A1:B1)"))
	assert.Equal(t, "SUM(A1:B1)", ws.Formula(2, 1))
	assert.Equal(t, "SUM(A1:B1)", ws.Formula(2, 2))

	_, err = ws.Value(0, 1)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{1.25, "1.25"},
		{float64(100), "100"},
		{false, "FALSE"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{time.Date(2024, 3, 1, 13, 4, 5, 0, time.UTC), "2024-03-01 13:04:05"},
		{42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestMemoryWorkbook(t *testing.T) {
	wb := NewMemoryWorkbook()
	ws, err := wb.AddWorksheet("One")
	require.NoError(t, err)
	assert.Equal(t, "One", ws.Name())

	_, err = wb.AddWorksheet("ONE")
	assert.Error(t, err)

	_, err = wb.AddWorksheet("Two")
	require.NoError(t, err)

	sheets, err := wb.Worksheets()
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Two", sheets[1].Name())

	got, ok := wb.Sheet("two")
	require.True(t, ok)
	assert.Equal(t, "Two", got.Name())
}
