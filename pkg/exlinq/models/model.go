// Package models defines the immutable sheet and column model consumed by
// the read and write engines.
package models

import (
	"fmt"
	"reflect"
	"slices"
)

// ExcelModel is the frozen description of every sheet of a workbook.
type ExcelModel struct {
	sheets           SheetSet
	ignoreSheetNames bool
}

// NewExcelModel validates specs and freezes them into a model. Sheet names
// must be unique across the model, column names unique within their sheet.
func NewExcelModel(specs []SheetSpec, ignoreSheetNames bool) (*ExcelModel, error) {
	set := SheetSet{names: NewNameIndex[*SheetModel]()}
	for i, spec := range specs {
		sheet, err := newSheetModel(spec, i)
		if err != nil {
			return nil, err
		}
		for _, name := range append([]string{sheet.Name()}, sheet.spec.AlternateNames...) {
			if err := set.names.Add(name, sheet); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name(), err)
			}
		}
		set.items = append(set.items, sheet)
	}
	return &ExcelModel{sheets: set, ignoreSheetNames: ignoreSheetNames}, nil
}

func (m *ExcelModel) Sheets() SheetSet { return m.sheets }

// IgnoreSheetNames reports whether worksheets are matched by position.
func (m *ExcelModel) IgnoreSheetNames() bool { return m.ignoreSheetNames }

// SheetSet is the ordered, name-indexed sheet collection of a model.
type SheetSet struct {
	items []*SheetModel
	names *NameIndex[*SheetModel]
}

func (s SheetSet) Len() int { return len(s.items) }

func (s SheetSet) At(i int) *SheetModel { return s.items[i] }

func (s SheetSet) All() []*SheetModel { return slices.Clone(s.items) }

// Get returns the sheet known by name (primary or alternate).
func (s SheetSet) Get(name string) (*SheetModel, error) {
	if s.names == nil {
		return nil, ErrNotFound
	}
	return s.names.Get(name)
}

// TryGet returns the sheet known by name (primary or alternate).
func (s SheetSet) TryGet(name string) (*SheetModel, bool) {
	if s.names == nil {
		return nil, false
	}
	return s.names.TryGet(name)
}

// ByType returns the first sheet whose records are of type t.
func (s SheetSet) ByType(t reflect.Type) (*SheetModel, error) {
	if sheet, ok := s.TryByType(t); ok {
		return sheet, nil
	}
	return nil, fmt.Errorf("%w: no sheet for type %v", ErrNotFound, t)
}

func (s SheetSet) TryByType(t reflect.Type) (*SheetModel, bool) {
	for _, sheet := range s.items {
		if sheet.Type() == t {
			return sheet, true
		}
	}
	return nil, false
}
