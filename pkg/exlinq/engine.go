package exlinq

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/coerce"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/csvgrid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
)

// Engine reads worksheets into record slices and writes record slices
// into worksheets, as described by an ExcelModel.
//
// Sheet data is exchanged as []T values boxed in any, one per model sheet
// in model order. An Engine holds no per-call state and may be shared.
type Engine struct {
	reader coerce.Reader
	log    *logrus.Entry
}

// NewEngine creates an engine for spreadsheet cells.
func NewEngine(opts Options) (*Engine, error) {
	culture, err := opts.ResolveCulture()
	if err != nil {
		return nil, err
	}
	return &Engine{
		reader: coerce.NewReader(culture, opts.ResolveLocation()),
		log:    opts.ResolveLogger().WithField("component", "exlinq"),
	}, nil
}

// withReader returns a copy of e converting cells with r.
func (e *Engine) withReader(r coerce.Reader) *Engine {
	return &Engine{reader: r, log: e.log}
}

// emptyData returns an empty []T for the sheet's record type.
func emptyData(s *models.SheetModel) any {
	return reflect.MakeSlice(reflect.SliceOf(s.Type()), 0, 0).Interface()
}

// ReadFile reads every model sheet from wb.
func (e *Engine) ReadFile(wb grid.Workbook, m *models.ExcelModel) ([]any, error) {
	if wb == nil || m == nil {
		return nil, ErrArgumentNil
	}
	worksheets, err := wb.Worksheets()
	if err != nil {
		return nil, err
	}

	sheets := m.Sheets()
	data := make([]any, sheets.Len())
	fill := func(ws grid.Worksheet, s *models.SheetModel) error {
		records, err := e.ReadSheet(ws, s)
		if err != nil {
			return err
		}
		if records == nil {
			return fmt.Errorf("%w: sheet %q read produced no result", ErrInvalidOperation, s.Name())
		}
		data[s.Index()] = records
		return nil
	}

	if m.IgnoreSheetNames() {
		for i := range min(len(worksheets), sheets.Len()) {
			if err := fill(worksheets[i], sheets.At(i)); err != nil {
				return nil, err
			}
		}
	} else {
		for _, ws := range worksheets {
			s, ok := sheets.TryGet(ws.Name())
			if !ok {
				e.log.WithField("worksheet", ws.Name()).Debug("ignoring unmapped worksheet")
				continue
			}
			if data[s.Index()] != nil {
				return nil, NewDataError(ErrDuplicateSheet, s.Name(), "", "", nil)
			}
			if err := fill(ws, s); err != nil {
				return nil, err
			}
		}
	}

	for i, s := range sheets.All() {
		if data[i] != nil {
			continue
		}
		if !s.Optional() {
			return nil, NewDataError(ErrSheetMissing, s.Name(), "", "", nil)
		}
		e.log.WithField("sheet", s.Name()).Debug("optional sheet absent")
		data[i] = emptyData(s)
	}
	return data, nil
}

// ReadSheet reads the records of s from ws. The result is a []T.
func (e *Engine) ReadSheet(ws grid.Worksheet, s *models.SheetModel) (any, error) {
	if ws == nil || s == nil {
		return nil, ErrArgumentNil
	}

	// Locate header and data
	var (
		r     grid.Range
		found bool
		err   error
	)
	if locate := s.ReadRangeLocator(); locate != nil {
		r, found, err = locate(ws)
	} else {
		r, found, err = ws.UsedRange()
	}
	if err != nil {
		return nil, err
	}
	return e.readRange(r, found, s)
}

// ReadCSVSheet reads the records of s from a loaded CSV table. The first
// line is the header line.
func (e *Engine) ReadCSVSheet(table *csvgrid.Table, s *models.SheetModel) (any, error) {
	if table == nil || s == nil {
		return nil, ErrArgumentNil
	}
	r, found := table.Range()
	return e.readRange(r, found, s)
}

func (e *Engine) readRange(r grid.Range, found bool, s *models.SheetModel) (any, error) {
	log := e.log.WithField("sheet", s.Name())
	if !found {
		if s.HasRequiredColumns() {
			return nil, NewDataError(ErrSheetEmpty, s.Name(), "", "", nil)
		}
		log.Debug("sheet has no data")
		return emptyData(s), nil
	}
	log.WithField("range", r.String()).Debug("reading sheet")

	mapping, err := mapColumns(r.Row(1), s)
	if err != nil {
		return nil, err
	}

	records := reflect.MakeSlice(reflect.SliceOf(s.Type()), 0, r.Rows()-1)
	for i := 2; i <= r.Rows(); i++ {
		rec, ok, err := e.DecodeRow(r.Row(i), s, mapping)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.WithField("row", r.Row(i).Address()).Debug("skipping empty row")
			continue
		}
		records = reflect.Append(records, reflect.ValueOf(rec).Elem())
	}
	return records.Interface(), nil
}

// mapColumns resolves each header cell to a model column. The result has
// one entry per header cell, nil where the header is unmapped.
func mapColumns(header grid.Range, s *models.SheetModel) ([]*models.ColumnModel, error) {
	columns := s.Columns()
	mapping := make([]*models.ColumnModel, header.Columns())
	mapped := make([]bool, columns.Len())

	for i := range mapping {
		text, err := header.Cell(1, i+1).Text()
		if err != nil {
			return nil, err
		}
		c, ok := columns.TryGet(text)
		if !ok {
			continue
		}
		if mapped[c.Index()] {
			return nil, NewDataError(ErrDuplicateColumn, s.Name(), c.Name(), header.Cell(1, i+1).Address(), nil)
		}
		mapped[c.Index()] = true
		mapping[i] = c
	}

	for i, c := range columns.All() {
		if !mapped[i] && !c.Optional() {
			return nil, NewDataError(ErrColumnMissing, s.Name(), c.Name(), "", nil)
		}
	}
	return mapping, nil
}

// DecodeRow converts one data row into a *T. It reports false when the
// row is empty and s skips empty rows.
func (e *Engine) DecodeRow(row grid.Range, s *models.SheetModel, mapping []*models.ColumnModel) (any, bool, error) {
	if row.Rows() != 1 || row.Columns() != len(mapping) {
		return nil, false, fmt.Errorf("%w: row %s does not match %d mapped columns", ErrArgumentOutOfRange, row.Address(), len(mapping))
	}
	rec := reflect.New(s.Type()).Interface()

	empty, err := row.IsEmpty()
	if err != nil {
		return nil, false, err
	}
	if empty {
		if s.SkipEmptyRows() {
			return nil, false, nil
		}
		for _, c := range mapping {
			if c != nil && !c.Optional() {
				return nil, false, NewDataError(ErrRowEmpty, s.Name(), "", row.Address(), nil)
			}
		}
		return rec, true, nil
	}

	for i, c := range mapping {
		if c == nil {
			continue
		}
		cell := row.Cell(1, i+1)
		raw, err := cell.Value()
		if err != nil {
			return nil, false, err
		}
		if grid.IsEmptyValue(raw) {
			if !c.Optional() {
				return nil, false, NewDataError(ErrColumnDataMissing, s.Name(), c.Name(), cell.Address(), nil)
			}
			continue
		}

		var value any
		if fn := c.ReadSerializer(); fn != nil {
			value, err = fn(cell)
		} else {
			value, err = e.reader.Read(cell, c.ValueType())
		}
		if err != nil {
			return nil, false, NewDataError(ErrParseData, s.Name(), c.Name(), cell.Address(), err)
		}
		if value == nil {
			continue
		}

		acc := c.Accessor()
		if acc == nil {
			return nil, false, fmt.Errorf("%w: column %q has no accessor", ErrInvalidOperation, c.Name())
		}
		if err := acc.Set(rec, value); err != nil {
			return nil, false, NewDataError(ErrParseData, s.Name(), c.Name(), cell.Address(), err)
		}
	}
	return rec, true, nil
}

// WriteFile adds one worksheet per model sheet to wb and writes data,
// which holds one []T per sheet in model order.
func (e *Engine) WriteFile(wb grid.Workbook, m *models.ExcelModel, data []any) error {
	if wb == nil || m == nil {
		return ErrArgumentNil
	}
	sheets := m.Sheets()
	if len(data) != sheets.Len() {
		return fmt.Errorf("%w: %d data sets for %d sheets", ErrArgumentOutOfRange, len(data), sheets.Len())
	}
	for i, s := range sheets.All() {
		ws, err := wb.AddWorksheet(s.Name())
		if err != nil {
			return fmt.Errorf("add worksheet %q: %w", s.Name(), err)
		}
		if err := e.WriteSheet(ws, s, data[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteSheet writes the header and one row per item of data, a []T or
// []*T, then runs the formatting and polishing hooks.
func (e *Engine) WriteSheet(ws grid.Worksheet, s *models.SheetModel, data any) error {
	if ws == nil || s == nil {
		return ErrArgumentNil
	}
	items, err := itemsOf(data)
	if err != nil {
		return err
	}

	// Resolve the header anchor
	anchor := grid.CellAt(ws, 1, 1)
	if locate := s.WriteRangeLocator(); locate != nil {
		r, found, err := locate(ws)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no write range for sheet %q", ErrInvalidOperation, s.Name())
		}
		anchor = grid.CellAt(ws, r.StartRow, r.StartCol)
	}

	columns := s.Columns().All()
	if len(columns) == 0 {
		return nil
	}
	area := grid.NewRange(ws, anchor.StartRow, anchor.StartCol, anchor.StartRow+items.Len(), anchor.StartCol+len(columns)-1)
	e.log.WithFields(logrus.Fields{"sheet": s.Name(), "range": area.String()}).Debug("writing sheet")

	// Headers
	for i, c := range columns {
		cell := area.Cell(1, i+1)
		if err := cell.SetValue(c.Name()); err != nil {
			return err
		}
		if fn := c.HeaderFormatter(); fn != nil {
			if err := fn(cell); err != nil {
				return fmt.Errorf("format header %q: %w", c.Name(), err)
			}
		}
	}

	// Rows
	for i := range items.Len() {
		if err := e.WriteRow(area.Row(i+2), s, items.Index(i).Interface()); err != nil {
			return err
		}
	}

	// Column formatters, then polishers
	if items.Len() > 0 {
		for i, c := range columns {
			if fn := c.ColumnFormatter(); fn != nil {
				if err := fn(area.Sub(2, i+1, area.Rows(), i+1)); err != nil {
					return fmt.Errorf("format column %q: %w", c.Name(), err)
				}
			}
		}
	}
	for i, c := range columns {
		if fn := c.WritePolisher(); fn != nil {
			if err := fn(area.Sub(1, i+1, area.Rows(), i+1)); err != nil {
				return fmt.Errorf("polish column %q: %w", c.Name(), err)
			}
		}
	}
	if fn := s.WritePolisher(); fn != nil {
		if err := fn(area); err != nil {
			return fmt.Errorf("polish sheet %q: %w", s.Name(), err)
		}
	}
	return nil
}

func itemsOf(data any) (reflect.Value, error) {
	if data == nil {
		return reflect.ValueOf([]any{}), nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: sheet data %T is not a slice", ErrArgumentOutOfRange, data)
	}
	return v, nil
}

// WriteRow writes item, a T or *T, into row.
func (e *Engine) WriteRow(row grid.Range, s *models.SheetModel, item any) error {
	rec, err := recordPointer(item, s.Type())
	if err != nil {
		return err
	}
	columns := s.Columns()
	if row.Rows() != 1 || row.Columns() != columns.Len() {
		return fmt.Errorf("%w: row %s does not match %d columns", ErrArgumentOutOfRange, row.Address(), columns.Len())
	}

	for i, c := range columns.All() {
		acc := c.Accessor()
		if acc == nil {
			return fmt.Errorf("%w: column %q has no accessor", ErrInvalidOperation, c.Name())
		}
		value, err := acc.Get(rec)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name(), err)
		}
		cell := row.Cell(1, i+1)
		if fn := c.WriteSerializer(); fn != nil {
			err = fn(cell, value)
		} else {
			err = coerce.Write(cell, value)
		}
		if err != nil {
			return fmt.Errorf("write cell %s of column %q: %w", cell.String(), c.Name(), err)
		}
	}
	return nil
}

// recordPointer returns item as a pointer to a t value.
func recordPointer(item any, t reflect.Type) (any, error) {
	v := reflect.ValueOf(item)
	switch {
	case !v.IsValid():
	case v.Type() == t:
		p := reflect.New(t)
		p.Elem().Set(v)
		return p.Interface(), nil
	case v.Type() == reflect.PointerTo(t) && !v.IsNil():
		return item, nil
	}
	return nil, fmt.Errorf("%w: item %T is not a %v", ErrArgumentOutOfRange, item, t)
}
