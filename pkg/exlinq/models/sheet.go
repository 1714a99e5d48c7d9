package models

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// SheetSpec describes a sheet before it is frozen into a SheetModel.
type SheetSpec struct {
	// Name is the primary worksheet name.
	Name string
	// AlternateNames are additional worksheet names matched on read.
	AlternateNames []string
	// Type is the struct type of the records produced by the sheet.
	Type reflect.Type
	// Columns are the mapped columns in write order.
	Columns []ColumnSpec
	// Optional yields an empty result when the worksheet is absent.
	Optional bool
	// SkipEmptyRows drops rows whose cells are all empty.
	SkipEmptyRows bool
	// ReadRangeLocator overrides the used range as the read region.
	ReadRangeLocator RangeLocator
	// WriteRangeLocator overrides cell A1 as the header anchor.
	WriteRangeLocator RangeLocator
	// WritePolisher is applied to the written header and data rectangle.
	WritePolisher RangeHook
}

// SheetModel is the immutable description of one mapped record type.
type SheetModel struct {
	spec    SheetSpec
	index   int
	columns ColumnSet
}

func newSheetModel(spec SheetSpec, index int) (*SheetModel, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.AlternateNames = trimAll(spec.AlternateNames)
	if spec.Name == "" {
		return nil, fmt.Errorf("sheet %d: %w", index, ErrArgumentNil)
	}
	if spec.Type == nil || spec.Type.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sheet %q: %w: record type %v is not a struct", spec.Name, ErrArgumentOutOfRange, spec.Type)
	}
	columns, err := newColumnSet(spec.Columns)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", spec.Name, err)
	}
	spec.Columns = nil
	return &SheetModel{spec: spec, index: index, columns: columns}, nil
}

func (s *SheetModel) Name() string { return s.spec.Name }

// AlternateNames returns a copy of the alternate worksheet names.
func (s *SheetModel) AlternateNames() []string { return slices.Clone(s.spec.AlternateNames) }

// Index is the position of the sheet within the model.
func (s *SheetModel) Index() int { return s.index }

// Type is the struct type of the records of this sheet.
func (s *SheetModel) Type() reflect.Type { return s.spec.Type }

func (s *SheetModel) Columns() ColumnSet              { return s.columns }
func (s *SheetModel) Optional() bool                  { return s.spec.Optional }
func (s *SheetModel) SkipEmptyRows() bool             { return s.spec.SkipEmptyRows }
func (s *SheetModel) ReadRangeLocator() RangeLocator  { return s.spec.ReadRangeLocator }
func (s *SheetModel) WriteRangeLocator() RangeLocator { return s.spec.WriteRangeLocator }
func (s *SheetModel) WritePolisher() RangeHook        { return s.spec.WritePolisher }

// HasRequiredColumns reports whether any column is not optional.
func (s *SheetModel) HasRequiredColumns() bool {
	for _, c := range s.columns.items {
		if !c.Optional() {
			return true
		}
	}
	return false
}

func trimAll(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}

func invalidOperationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

func columnError(column string, err error) error {
	return fmt.Errorf("column %q: %w", column, err)
}
