package exlinq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
)

func TestInspect(t *testing.T) {
	stock := grid.NewMemoryWorksheet("Stock")
	require.NoError(t, stock.SetRow(2, nil, "Name", "Qty"))
	require.NoError(t, stock.SetRow(3, nil, "bolt", 4.0))
	require.NoError(t, stock.SetRow(4, nil, "nut", 9.0))
	empty := grid.NewMemoryWorksheet("Notes")

	summary, err := Inspect("book.xlsx", grid.NewMemoryWorkbook(stock, empty), buildModel(t, itemModel(true)))
	require.NoError(t, err)

	want := &models.WorkbookSummary{
		BookName: "book.xlsx",
		Sheets: []models.SheetSummary{
			{
				Name:      "Stock",
				UsedRange: &models.Area{R1: 2, C1: 2, R2: 4, C2: 3, Ref: "B2:C4"},
				Headers:   []string{"Name", "Qty"},
				DataRows:  2,
				Matched:   "Items",
			},
			{Name: "Notes"},
		},
	}
	assert.Equal(t, want, summary)

	positional := buildModel(t, func(b *ModelBuilder) {
		itemModel(true)(b)
		b.IgnoreSheetNames()
	})
	summary, err = Inspect("book.xlsx", grid.NewMemoryWorkbook(stock, empty), positional)
	require.NoError(t, err)
	assert.Equal(t, "Items", summary.Sheets[0].Matched)
	assert.Equal(t, "Settings", summary.Sheets[1].Matched)
}
