package coerce

import (
	"database/sql/driver"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
)

// Write stores value into cell using WriteValue.
func Write(cell grid.Range, value any) error {
	v, err := WriteValue(value)
	if err != nil {
		return err
	}
	return cell.SetValue(v)
}

// WriteValue converts a Go value into its native cell form. Nil values,
// nil pointers and the zero time become nil (an empty cell).
func WriteValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *url.URL:
		if v == nil {
			return nil, nil
		}
		return v.String(), nil
	case url.URL:
		return v.String(), nil
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return ToOADate(v), nil
	case time.Duration:
		return DurationToOADate(v), nil
	case uuid.UUID:
		return v.String(), nil
	case driver.Valuer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		dv, err := v.Value()
		if err != nil {
			return nil, NewConversionError(value, reflect.TypeOf(value), err)
		}
		return WriteValue(dv)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return WriteValue(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32:
		return float32(rv.Float()), nil
	case reflect.Float64:
		return rv.Float(), nil
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return nil, NewConversionError(value, rv.Type(), ErrUnsupported)
	}
	return value, nil
}
