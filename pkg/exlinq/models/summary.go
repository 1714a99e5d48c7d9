package models

// WorkbookSummary describes the physical layout of a workbook or CSV file.
type WorkbookSummary struct {
	// BookName is the file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists the worksheets in file order.
	Sheets []SheetSummary `json:"sheets"`
}

// SheetSummary describes one worksheet.
type SheetSummary struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// UsedRange is the bounding box of non-empty cells, nil for an empty sheet.
	UsedRange *Area `json:"used_range,omitempty"`
	// Headers holds the display text of the first used row.
	Headers []string `json:"headers,omitempty"`
	// DataRows is the number of used rows below the header row.
	DataRows int `json:"data_rows"`
	// Matched names the model sheet the worksheet maps to, if any.
	Matched string `json:"matched,omitempty"`
}

// Area represents cell coordinate bounds.
type Area struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
	// Ref is the A1-style reference of the area.
	Ref string `json:"ref"`
}
