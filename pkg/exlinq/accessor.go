package exlinq

import (
	"fmt"
	"reflect"
	"strings"
)

// fieldAccessor binds a column to a struct field through a selector that
// returns the field's address.
type fieldAccessor[T, V any] struct {
	field func(*T) *V
}

func (a fieldAccessor[T, V]) Get(record any) (any, error) {
	rec, err := recordOf[T](record)
	if err != nil {
		return nil, err
	}
	return *a.field(rec), nil
}

func (a fieldAccessor[T, V]) Set(record any, value any) error {
	rec, err := recordOf[T](record)
	if err != nil {
		return err
	}
	v, err := valueOf[V](value)
	if err != nil {
		return err
	}
	*a.field(rec) = v
	return nil
}

// funcAccessor binds a column to a getter and setter pair.
type funcAccessor[T, V any] struct {
	get func(*T) V
	set func(*T, V)
}

func (a funcAccessor[T, V]) Get(record any) (any, error) {
	rec, err := recordOf[T](record)
	if err != nil {
		return nil, err
	}
	return a.get(rec), nil
}

func (a funcAccessor[T, V]) Set(record any, value any) error {
	rec, err := recordOf[T](record)
	if err != nil {
		return err
	}
	v, err := valueOf[V](value)
	if err != nil {
		return err
	}
	a.set(rec, v)
	return nil
}

func recordOf[T any](record any) (*T, error) {
	rec, ok := record.(*T)
	if !ok || rec == nil {
		return nil, fmt.Errorf("%w: record %T is not a *%v", ErrArgumentOutOfRange, record, reflect.TypeFor[T]())
	}
	return rec, nil
}

func valueOf[V any](value any) (V, error) {
	var zero V
	if value == nil {
		return zero, nil
	}
	v, ok := value.(V)
	if !ok {
		return zero, fmt.Errorf("%w: value %T is not a %v", ErrArgumentOutOfRange, value, reflect.TypeFor[V]())
	}
	return v, nil
}

// resolveField finds the struct field whose address sel returns. It
// returns the dotted field path and the field itself. A selector that
// panics on the zero record, e.g. through a nil pointer field, is rejected
// like one returning a foreign address.
func resolveField[T, V any](sel func(*T) *V) (path string, field reflect.StructField, err error) {
	if sel == nil {
		return "", reflect.StructField{}, ErrArgumentNil
	}
	recType := reflect.TypeFor[T]()
	defer func() {
		if recover() != nil {
			path, field = "", reflect.StructField{}
			err = fmt.Errorf("%w: selector does not address a field of %v", ErrArgumentOutOfRange, recType)
		}
	}()

	var rec T
	p := sel(&rec)
	if p == nil {
		return "", reflect.StructField{}, fmt.Errorf("%w: selector returned nil", ErrArgumentOutOfRange)
	}

	base := reflect.ValueOf(&rec).Pointer()
	addr := reflect.ValueOf(p).Pointer()
	if addr < base || addr >= base+recType.Size() {
		return "", reflect.StructField{}, fmt.Errorf("%w: selector does not address a field of %v", ErrArgumentOutOfRange, recType)
	}

	names, field, ok := fieldAt(recType, addr-base, reflect.TypeFor[V]())
	if !ok {
		return "", reflect.StructField{}, fmt.Errorf("%w: no %v field of %v at offset %d", ErrArgumentOutOfRange, reflect.TypeFor[V](), recType, addr-base)
	}
	return strings.Join(names, "."), field, nil
}

func fieldAt(t reflect.Type, offset uintptr, want reflect.Type) ([]string, reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if offset < f.Offset || offset >= f.Offset+max(f.Type.Size(), 1) {
			continue
		}
		if offset == f.Offset && f.Type == want {
			return []string{f.Name}, f, true
		}
		if f.Type.Kind() == reflect.Struct {
			if path, inner, ok := fieldAt(f.Type, offset-f.Offset, want); ok {
				return append([]string{f.Name}, path...), inner, true
			}
		}
	}
	return nil, reflect.StructField{}, false
}
