package models

import (
	"reflect"
	"slices"
	"strings"
)

// ColumnSpec describes a column before it is frozen into a ColumnModel.
type ColumnSpec struct {
	// Name is the primary header name.
	Name string
	// AlternateNames are additional header names matched on read.
	AlternateNames []string
	// Member identifies the bound record member (field path or accessor key).
	Member string
	// Accessor gets and sets the member on a record.
	Accessor Accessor
	// ValueType is the member's type, used by the default coercion.
	ValueType reflect.Type
	// Optional tolerates a missing header or empty cells on read.
	Optional bool
	// ReadSerializer replaces the default read coercion when set.
	ReadSerializer ReadSerializer
	// WriteSerializer replaces the default write coercion when set.
	WriteSerializer WriteSerializer
	// HeaderFormatter is applied to the header cell.
	HeaderFormatter RangeHook
	// ColumnFormatter is applied to the data cells, header excluded.
	ColumnFormatter RangeHook
	// WritePolisher is applied to the whole column, header included.
	WritePolisher RangeHook
}

// ColumnModel is the immutable description of one mapped column.
type ColumnModel struct {
	spec  ColumnSpec
	index int
}

func (c *ColumnModel) Name() string { return c.spec.Name }

// AlternateNames returns a copy of the alternate header names.
func (c *ColumnModel) AlternateNames() []string { return slices.Clone(c.spec.AlternateNames) }

// Index is the position of the column within its sheet.
func (c *ColumnModel) Index() int { return c.index }

func (c *ColumnModel) Member() string                   { return c.spec.Member }
func (c *ColumnModel) Accessor() Accessor               { return c.spec.Accessor }
func (c *ColumnModel) ValueType() reflect.Type          { return c.spec.ValueType }
func (c *ColumnModel) Optional() bool                   { return c.spec.Optional }
func (c *ColumnModel) ReadSerializer() ReadSerializer   { return c.spec.ReadSerializer }
func (c *ColumnModel) WriteSerializer() WriteSerializer { return c.spec.WriteSerializer }
func (c *ColumnModel) HeaderFormatter() RangeHook       { return c.spec.HeaderFormatter }
func (c *ColumnModel) ColumnFormatter() RangeHook       { return c.spec.ColumnFormatter }
func (c *ColumnModel) WritePolisher() RangeHook         { return c.spec.WritePolisher }

// ColumnSet is the ordered, name-indexed column collection of a sheet.
type ColumnSet struct {
	items []*ColumnModel
	names *NameIndex[*ColumnModel]
}

func newColumnSet(specs []ColumnSpec) (ColumnSet, error) {
	set := ColumnSet{names: NewNameIndex[*ColumnModel]()}
	members := make(map[string]string)
	for i, spec := range specs {
		spec.Name = strings.TrimSpace(spec.Name)
		spec.AlternateNames = trimAll(spec.AlternateNames)
		col := &ColumnModel{spec: spec, index: i}
		if spec.Member != "" {
			if prev, ok := members[spec.Member]; ok {
				return ColumnSet{}, invalidOperationf("member %s is already mapped to column %q", spec.Member, prev)
			}
			members[spec.Member] = spec.Name
		}
		for _, name := range append([]string{spec.Name}, spec.AlternateNames...) {
			if err := set.names.Add(name, col); err != nil {
				return ColumnSet{}, columnError(spec.Name, err)
			}
		}
		set.items = append(set.items, col)
	}
	return set, nil
}

func (s ColumnSet) Len() int { return len(s.items) }

// At returns the column at position i.
func (s ColumnSet) At(i int) *ColumnModel { return s.items[i] }

// All returns the columns in order.
func (s ColumnSet) All() []*ColumnModel { return slices.Clone(s.items) }

// Get returns the column known by name (primary or alternate).
func (s ColumnSet) Get(name string) (*ColumnModel, error) {
	if s.names == nil {
		return nil, ErrNotFound
	}
	return s.names.Get(name)
}

// TryGet returns the column known by name (primary or alternate).
func (s ColumnSet) TryGet(name string) (*ColumnModel, bool) {
	if s.names == nil {
		return nil, false
	}
	return s.names.TryGet(name)
}
