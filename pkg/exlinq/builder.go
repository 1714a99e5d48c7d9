package exlinq

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
)

// ModelBuilder declares sheets and columns and freezes them into an
// immutable models.ExcelModel.
//
// Declaration errors do not interrupt a fluent chain: the failing call
// returns a detached builder and the error is reported by Err and Build.
type ModelBuilder struct {
	sheets           []*sheetState
	names            *models.NameIndex[*sheetState]
	ignoreSheetNames bool
	built            bool
	errs             []error
}

type sheetState struct {
	spec        models.SheetSpec
	columns     []*columnState
	columnNames *models.NameIndex[*columnState]
	builder     any
}

type columnState struct {
	spec    models.ColumnSpec
	builder any
}

// NewModelBuilder creates an empty builder.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{names: models.NewNameIndex[*sheetState]()}
}

func (b *ModelBuilder) fail(err error) {
	b.errs = append(b.errs, err)
}

// mutable records an error when the model was already built.
func (b *ModelBuilder) mutable() bool {
	if b.built {
		b.fail(fmt.Errorf("%w: model already built", ErrInvalidOperation))
		return false
	}
	return true
}

// Err returns the declaration errors recorded so far.
func (b *ModelBuilder) Err() error {
	return errors.Join(b.errs...)
}

// IgnoreSheetNames matches worksheets to sheets by position instead of by name.
func (b *ModelBuilder) IgnoreSheetNames() *ModelBuilder {
	if b.mutable() {
		b.ignoreSheetNames = true
	}
	return b
}

// Build freezes the declarations. It fails with every recorded
// declaration error; no model is built from an invalid declaration.
func (b *ModelBuilder) Build() (*models.ExcelModel, error) {
	if !b.mutable() {
		return nil, b.Err()
	}
	b.built = true
	if err := b.Err(); err != nil {
		return nil, err
	}

	specs := make([]models.SheetSpec, len(b.sheets))
	for i, s := range b.sheets {
		specs[i] = s.spec
		specs[i].Columns = make([]models.ColumnSpec, len(s.columns))
		for j, c := range s.columns {
			specs[i].Columns[j] = c.spec
		}
	}
	return models.NewExcelModel(specs, b.ignoreSheetNames)
}

// SheetBuilder configures the sheet of record type T.
type SheetBuilder[T any] struct {
	model *ModelBuilder
	state *sheetState // nil when detached
}

// Sheet declares a sheet for T named after the type.
func Sheet[T any](b *ModelBuilder) *SheetBuilder[T] {
	return NamedSheet[T](b, reflect.TypeFor[T]().Name())
}

// NamedSheet declares a sheet for T. Declaring the same type and name
// again returns the same builder; the same type may be declared under
// several names.
func NamedSheet[T any](b *ModelBuilder, name string) *SheetBuilder[T] {
	detached := &SheetBuilder[T]{model: b}
	if !b.mutable() {
		return detached
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		b.fail(fmt.Errorf("%w: sheet record type %v is not a struct", ErrArgumentOutOfRange, typ))
		return detached
	}
	name = strings.TrimSpace(name)
	if name == "" {
		b.fail(fmt.Errorf("sheet of %v: %w", typ, ErrArgumentNil))
		return detached
	}

	if existing, ok := b.names.TryGet(name); ok {
		if sb, ok := existing.builder.(*SheetBuilder[T]); ok && models.NormalizeName(existing.spec.Name) == models.NormalizeName(name) {
			return sb
		}
	}

	state := &sheetState{
		spec:        models.SheetSpec{Name: name, Type: typ},
		columnNames: models.NewNameIndex[*columnState](),
	}
	if err := b.names.Add(name, state); err != nil {
		b.fail(fmt.Errorf("sheet %q: %w", name, err))
		return detached
	}
	sb := &SheetBuilder[T]{model: b, state: state}
	state.builder = sb
	b.sheets = append(b.sheets, state)
	return sb
}

func (s *SheetBuilder[T]) ok() bool {
	return s.state != nil && s.model.mutable()
}

// Name returns the primary sheet name, or "" for a detached builder.
func (s *SheetBuilder[T]) Name() string {
	if s.state == nil {
		return ""
	}
	return s.state.spec.Name
}

// AlternateName adds a name matched on read. It must not collide with any
// sheet name of the model.
func (s *SheetBuilder[T]) AlternateName(name string) *SheetBuilder[T] {
	if !s.ok() {
		return s
	}
	if err := s.model.names.Add(name, s.state); err != nil {
		s.model.fail(fmt.Errorf("sheet %q: alternate name: %w", s.state.spec.Name, err))
		return s
	}
	s.state.spec.AlternateNames = append(s.state.spec.AlternateNames, strings.TrimSpace(name))
	return s
}

// Optional yields an empty result when no worksheet matches.
func (s *SheetBuilder[T]) Optional() *SheetBuilder[T] {
	if s.ok() {
		s.state.spec.Optional = true
	}
	return s
}

// SkipEmptyRows drops data rows whose cells are all empty.
func (s *SheetBuilder[T]) SkipEmptyRows() *SheetBuilder[T] {
	if s.ok() {
		s.state.spec.SkipEmptyRows = true
	}
	return s
}

// ReadRangeLocator sets the function locating the header and data region.
func (s *SheetBuilder[T]) ReadRangeLocator(fn models.RangeLocator) *SheetBuilder[T] {
	if s.ok() {
		s.state.spec.ReadRangeLocator = fn
	}
	return s
}

// WriteRangeLocator sets the function locating the header anchor cell.
func (s *SheetBuilder[T]) WriteRangeLocator(fn models.RangeLocator) *SheetBuilder[T] {
	if s.ok() {
		s.state.spec.WriteRangeLocator = fn
	}
	return s
}

// WritePolisher sets a hook run on the written header and data rectangle.
func (s *SheetBuilder[T]) WritePolisher(fn func(grid.Range) error) *SheetBuilder[T] {
	if s.ok() {
		s.state.spec.WritePolisher = fn
	}
	return s
}

// ColumnBuilder configures a column of type V on the sheet of T.
type ColumnBuilder[T, V any] struct {
	sheet *SheetBuilder[T]
	state *columnState // nil when detached
}

// Column maps the field addressed by field, e.g. func(o *Order) *int { return &o.Qty },
// to a column named after the field.
func Column[T, V any](s *SheetBuilder[T], field func(*T) *V) *ColumnBuilder[T, V] {
	path, f, err := resolveField(field)
	if err != nil {
		return failColumn[T, V](s, err)
	}
	return declareColumn[T, V](s, f.Name, path, fieldAccessor[T, V]{field: field})
}

// NamedColumn maps the field addressed by field to the column name.
func NamedColumn[T, V any](s *SheetBuilder[T], name string, field func(*T) *V) *ColumnBuilder[T, V] {
	path, _, err := resolveField(field)
	if err != nil {
		return failColumn[T, V](s, err)
	}
	return declareColumn[T, V](s, name, path, fieldAccessor[T, V]{field: field})
}

// ColumnFunc maps a column through an explicit getter and setter.
func ColumnFunc[T, V any](s *SheetBuilder[T], name string, get func(*T) V, set func(*T, V)) *ColumnBuilder[T, V] {
	if get == nil || set == nil {
		return failColumn[T, V](s, fmt.Errorf("column %q: accessor: %w", name, ErrArgumentNil))
	}
	return declareColumn[T, V](s, name, "", funcAccessor[T, V]{get: get, set: set})
}

func failColumn[T, V any](s *SheetBuilder[T], err error) *ColumnBuilder[T, V] {
	if s.ok() {
		s.model.fail(fmt.Errorf("sheet %q: %w", s.state.spec.Name, err))
	}
	return &ColumnBuilder[T, V]{sheet: s}
}

func declareColumn[T, V any](s *SheetBuilder[T], name, member string, acc models.Accessor) *ColumnBuilder[T, V] {
	detached := &ColumnBuilder[T, V]{sheet: s}
	if !s.ok() {
		return detached
	}
	name = strings.TrimSpace(name)
	if name == "" {
		s.model.fail(fmt.Errorf("sheet %q: column %s: %w", s.state.spec.Name, member, ErrArgumentNil))
		return detached
	}

	if member != "" {
		for _, c := range s.state.columns {
			if c.spec.Member != member {
				continue
			}
			cb, ok := c.builder.(*ColumnBuilder[T, V])
			if ok && models.NormalizeName(c.spec.Name) == models.NormalizeName(name) {
				return cb
			}
			s.model.fail(fmt.Errorf("sheet %q: %w: member %s already added as column %q",
				s.state.spec.Name, ErrInvalidOperation, member, c.spec.Name))
			return detached
		}
	}

	state := &columnState{spec: models.ColumnSpec{
		Name:      name,
		Member:    member,
		Accessor:  acc,
		ValueType: reflect.TypeFor[V](),
	}}
	if err := s.state.columnNames.Add(name, state); err != nil {
		s.model.fail(fmt.Errorf("sheet %q: column %q: %w", s.state.spec.Name, name, err))
		return detached
	}
	cb := &ColumnBuilder[T, V]{sheet: s, state: state}
	state.builder = cb
	s.state.columns = append(s.state.columns, state)
	return cb
}

func (c *ColumnBuilder[T, V]) ok() bool {
	return c.state != nil && c.sheet.model.mutable()
}

// Name returns the primary column name, or "" for a detached builder.
func (c *ColumnBuilder[T, V]) Name() string {
	if c.state == nil {
		return ""
	}
	return c.state.spec.Name
}

// AlternateName adds a header name matched on read. It must not collide
// with any column name of the sheet.
func (c *ColumnBuilder[T, V]) AlternateName(name string) *ColumnBuilder[T, V] {
	if !c.ok() {
		return c
	}
	sheet := c.sheet.state
	if err := sheet.columnNames.Add(name, c.state); err != nil {
		c.sheet.model.fail(fmt.Errorf("sheet %q: column %q: alternate name: %w", sheet.spec.Name, c.state.spec.Name, err))
		return c
	}
	c.state.spec.AlternateNames = append(c.state.spec.AlternateNames, strings.TrimSpace(name))
	return c
}

// Optional tolerates a missing header and empty cells.
func (c *ColumnBuilder[T, V]) Optional() *ColumnBuilder[T, V] {
	if c.ok() {
		c.state.spec.Optional = true
	}
	return c
}

// ReadSerializer replaces the default conversion of non-empty cells.
func (c *ColumnBuilder[T, V]) ReadSerializer(fn func(cell grid.Range) (V, error)) *ColumnBuilder[T, V] {
	if !c.ok() {
		return c
	}
	if fn == nil {
		c.state.spec.ReadSerializer = nil
		return c
	}
	c.state.spec.ReadSerializer = func(cell grid.Range) (any, error) {
		v, err := fn(cell)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return c
}

// WriteSerializer replaces the default conversion when writing a cell.
func (c *ColumnBuilder[T, V]) WriteSerializer(fn func(cell grid.Range, value V) error) *ColumnBuilder[T, V] {
	if !c.ok() {
		return c
	}
	if fn == nil {
		c.state.spec.WriteSerializer = nil
		return c
	}
	c.state.spec.WriteSerializer = func(cell grid.Range, value any) error {
		v, err := valueOf[V](value)
		if err != nil {
			return err
		}
		return fn(cell, v)
	}
	return c
}

// HeaderFormatter sets a hook run on the header cell.
func (c *ColumnBuilder[T, V]) HeaderFormatter(fn func(grid.Range) error) *ColumnBuilder[T, V] {
	if c.ok() {
		c.state.spec.HeaderFormatter = fn
	}
	return c
}

// ColumnFormatter sets a hook run on the data cells, header excluded.
func (c *ColumnBuilder[T, V]) ColumnFormatter(fn func(grid.Range) error) *ColumnBuilder[T, V] {
	if c.ok() {
		c.state.spec.ColumnFormatter = fn
	}
	return c
}

// WritePolisher sets a hook run on the whole column, header included.
func (c *ColumnBuilder[T, V]) WritePolisher(fn func(grid.Range) error) *ColumnBuilder[T, V] {
	if c.ok() {
		c.state.spec.WritePolisher = fn
	}
	return c
}
