package exlinq

import (
	"fmt"
	"io"
	"reflect"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/coerce"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/csvgrid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/xlsx"
)

// Context owns a model and the records of each of its sheets.
//
// A Context is not safe for concurrent use.
type Context struct {
	model  *models.ExcelModel
	engine *Engine
	opts   Options
	data   []any
}

// NewContext builds a model with configure and returns a context over it.
func NewContext(configure func(*ModelBuilder), opts Options) (*Context, error) {
	if configure == nil {
		return nil, ErrArgumentNil
	}
	b := NewModelBuilder()
	configure(b)
	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	return NewContextFromModel(m, opts)
}

// NewContextFromModel returns a context over an already built model.
func NewContextFromModel(m *models.ExcelModel, opts Options) (*Context, error) {
	if m == nil {
		return nil, ErrArgumentNil
	}
	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	c := &Context{model: m, engine: engine, opts: opts}
	c.data = make([]any, m.Sheets().Len())
	for i, s := range m.Sheets().All() {
		c.data[i] = emptyData(s)
	}
	return c, nil
}

// Model returns the context's model.
func (c *Context) Model() *models.ExcelModel { return c.model }

// ReadFile replaces all sheet data with the contents of an xlsx file.
func (c *Context) ReadFile(path string) error {
	wb, err := xlsx.Open(path)
	if err != nil {
		return err
	}
	defer wb.Close()
	return c.ReadWorkbook(wb)
}

// Read replaces all sheet data with the contents of an xlsx stream.
func (c *Context) Read(r io.Reader) error {
	wb, err := xlsx.OpenReader(r)
	if err != nil {
		return err
	}
	defer wb.Close()
	return c.ReadWorkbook(wb)
}

// ReadWorkbook replaces all sheet data with the contents of wb. On error
// the previous data is kept.
func (c *Context) ReadWorkbook(wb grid.Workbook) error {
	data, err := c.engine.ReadFile(wb, c.model)
	if err != nil {
		return err
	}
	c.data = data
	return nil
}

// WriteFile writes all sheets to a new xlsx file.
func (c *Context) WriteFile(path string) error {
	wb := xlsx.New()
	defer wb.Close()
	if err := c.WriteWorkbook(wb); err != nil {
		return err
	}
	return wb.SaveAs(path)
}

// Write writes all sheets as an xlsx stream.
func (c *Context) Write(w io.Writer) error {
	wb := xlsx.New()
	defer wb.Close()
	if err := c.WriteWorkbook(wb); err != nil {
		return err
	}
	return wb.Write(w)
}

// WriteWorkbook adds one worksheet per sheet to wb and writes the records.
func (c *Context) WriteWorkbook(wb grid.Workbook) error {
	return c.engine.WriteFile(wb, c.model, c.data)
}

// Data returns the records of the named sheet as a []T.
func (c *Context) Data(name string) (any, error) {
	s, err := c.model.Sheets().Get(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	return c.data[s.Index()], nil
}

// SetData replaces the records of the named sheet. data must be a []T
// of the sheet's record type.
func (c *Context) SetData(name string, data any) error {
	s, err := c.model.Sheets().Get(name)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}
	want := reflect.SliceOf(s.Type())
	if data == nil {
		data = emptyData(s)
	}
	if reflect.TypeOf(data) != want {
		return fmt.Errorf("%w: sheet %q holds %v, not %T", ErrInvalidOperation, s.Name(), want, data)
	}
	c.data[s.Index()] = data
	return nil
}

// sheetFor returns the single sheet bound to T.
func sheetFor[T any](c *Context) (*models.SheetModel, error) {
	s, err := c.model.Sheets().ByType(reflect.TypeFor[T]())
	if err != nil {
		return nil, fmt.Errorf("sheet of %v: %w", reflect.TypeFor[T](), err)
	}
	return s, nil
}

// namedSheetFor returns the named sheet and checks it is bound to T.
func namedSheetFor[T any](c *Context, name string) (*models.SheetModel, error) {
	s, err := c.model.Sheets().Get(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	if s.Type() != reflect.TypeFor[T]() {
		return nil, fmt.Errorf("%w: sheet %q is bound to %v, not %v", ErrInvalidOperation, s.Name(), s.Type(), reflect.TypeFor[T]())
	}
	return s, nil
}

// Records returns the records of the sheet bound to T.
func Records[T any](c *Context) ([]T, error) {
	s, err := sheetFor[T](c)
	if err != nil {
		return nil, err
	}
	return c.data[s.Index()].([]T), nil
}

// NamedRecords returns the records of the named sheet.
func NamedRecords[T any](c *Context, name string) ([]T, error) {
	s, err := namedSheetFor[T](c, name)
	if err != nil {
		return nil, err
	}
	return c.data[s.Index()].([]T), nil
}

// SetRecords replaces the records of the sheet bound to T.
func SetRecords[T any](c *Context, rows []T) error {
	s, err := sheetFor[T](c)
	if err != nil {
		return err
	}
	c.data[s.Index()] = nonNil(rows)
	return nil
}

// SetNamedRecords replaces the records of the named sheet.
func SetNamedRecords[T any](c *Context, name string, rows []T) error {
	s, err := namedSheetFor[T](c, name)
	if err != nil {
		return err
	}
	c.data[s.Index()] = nonNil(rows)
	return nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// ReadCSV replaces the records of the sheet bound to T with a CSV stream.
func ReadCSV[T any](c *Context, r io.Reader, opts CSVOptions) error {
	s, err := sheetFor[T](c)
	if err != nil {
		return err
	}
	return c.readCSV(s, r, opts)
}

// ReadNamedCSV replaces the records of the named sheet with a CSV stream.
func ReadNamedCSV[T any](c *Context, name string, r io.Reader, opts CSVOptions) error {
	s, err := namedSheetFor[T](c, name)
	if err != nil {
		return err
	}
	return c.readCSV(s, r, opts)
}

func (c *Context) readCSV(s *models.SheetModel, r io.Reader, opts CSVOptions) error {
	if r == nil {
		return ErrArgumentNil
	}
	gridOpts, err := opts.gridOptions(s.Name())
	if err != nil {
		return err
	}

	culture := c.opts.Culture
	if opts.Culture != "" {
		culture = opts.Culture
	}
	resolved, err := coerce.LookupCulture(culture)
	if err != nil {
		return err
	}

	table, err := csvgrid.Load(r, gridOpts)
	if err != nil {
		return err
	}
	engine := c.engine.withReader(coerce.NewCSVReader(resolved, c.opts.ResolveLocation()))
	records, err := engine.ReadCSVSheet(table, s)
	if err != nil {
		return err
	}
	c.data[s.Index()] = records
	return nil
}
