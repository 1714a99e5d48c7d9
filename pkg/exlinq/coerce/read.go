package coerce

import (
	"database/sql"
	"encoding"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
)

var (
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
	urlType             = reflect.TypeFor[url.URL]()
	urlPtrType          = reflect.TypeFor[*url.URL]()
	scannerType         = reflect.TypeFor[sql.Scanner]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

var errOverflow = errors.New("value out of range")

// Reader converts native cell values into Go values.
type Reader struct {
	// Culture drives number and date parsing of text values.
	Culture Culture
	// Location receives converted date/time values. Nil means UTC.
	Location *time.Location
	// NumericBoolText additionally accepts "1" and "0" as boolean text.
	NumericBoolText bool
}

// NewReader returns a Reader for spreadsheet cells.
func NewReader(c Culture, loc *time.Location) Reader {
	return Reader{Culture: c, Location: loc}
}

// NewCSVReader returns a Reader for CSV fields.
func NewCSVReader(c Culture, loc *time.Location) Reader {
	return Reader{Culture: c, Location: loc, NumericBoolText: true}
}

// Read converts the value of cell to target. Empty cells yield nil.
func (r Reader) Read(cell grid.Range, target reflect.Type) (any, error) {
	raw, err := cell.Value()
	if err != nil {
		return nil, err
	}
	if grid.IsEmptyValue(raw) {
		return nil, nil
	}
	text, err := cell.Text()
	if err != nil {
		return nil, err
	}
	return r.ReadValue(raw, text, target)
}

// ReadValue converts a native value, whose display text is text, to target.
// The result is nil or holds a value of exactly type target (raw itself
// for interface targets).
func (r Reader) ReadValue(raw any, text string, target reflect.Type) (any, error) {
	if grid.IsEmptyValue(raw) {
		return nil, nil
	}
	v, err := r.convert(raw, text, target)
	if err != nil {
		return nil, NewConversionError(raw, target, err)
	}
	return v, nil
}

func (r Reader) convert(raw any, text string, target reflect.Type) (any, error) {
	switch target {
	case urlPtrType:
		return parseURL(text)
	case urlType:
		u, err := parseURL(text)
		if err != nil {
			return nil, err
		}
		return *u, nil
	}

	if target.Kind() == reflect.Pointer {
		v, err := r.convert(raw, text, target.Elem())
		if err != nil || v == nil {
			return nil, err
		}
		p := reflect.New(target.Elem())
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface(), nil
	}

	rawType := reflect.TypeOf(raw)
	if rawType == target {
		return raw, nil
	}
	if target.Kind() == reflect.Interface {
		if rawType.Implements(target) {
			return raw, nil
		}
		return nil, ErrUnsupported
	}

	switch target {
	case timeType:
		return r.readTime(raw)
	case durationType:
		return r.readDuration(raw)
	case uuidType:
		u, err := uuid.Parse(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	if ptr := reflect.PointerTo(target); ptr.Implements(scannerType) {
		p := reflect.New(target)
		if err := p.Interface().(sql.Scanner).Scan(r.scanSource(raw, text)); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	} else if ptr.Implements(textUnmarshalerType) {
		p := reflect.New(target)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(r.numericText(text))); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}

	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.String:
		out.SetString(text)
	case reflect.Bool:
		b, err := r.readBool(raw)
		if err != nil {
			return nil, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := r.readInt(raw)
		if err != nil {
			return nil, err
		}
		if out.OverflowInt(n) {
			return nil, errOverflow
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := r.readUint(raw)
		if err != nil {
			return nil, err
		}
		if out.OverflowUint(n) {
			return nil, errOverflow
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := r.readFloat(raw, target.Bits())
		if err != nil {
			return nil, err
		}
		if out.OverflowFloat(f) {
			return nil, errOverflow
		}
		out.SetFloat(f)
	default:
		return nil, ErrUnsupported
	}
	return out.Interface(), nil
}

func (r Reader) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Reader) readTime(raw any) (time.Time, error) {
	if s, ok := raw.(string); ok {
		return r.Culture.ParseTime(s, r.location())
	}
	f, ok := toFloat(raw)
	if !ok {
		return time.Time{}, ErrUnsupported
	}
	return FromOADate(f, r.location())
}

func (r Reader) readDuration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Time:
		return TimeOfDay(v), nil
	case string:
		if d, err := ParseDuration(v); err == nil {
			return d, nil
		}
		t, err := r.Culture.ParseTime(v, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as duration", v)
		}
		return TimeOfDay(t), nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, ErrUnsupported
	}
	t, err := FromOADate(f, time.UTC)
	if err != nil {
		return 0, err
	}
	return TimeOfDay(t), nil
}

func (r Reader) readBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		case "1":
			if r.NumericBoolText {
				return true, nil
			}
		case "0":
			if r.NumericBoolText {
				return false, nil
			}
		}
		return false, fmt.Errorf("%q is not a boolean", v)
	}
	f, ok := toFloat(raw)
	if !ok {
		return false, ErrUnsupported
	}
	return f != 0, nil
}

func (r Reader) readInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case string:
		if n, err := r.Culture.ParseInt(v, 64); err == nil {
			return n, nil
		}
		f, err := r.Culture.ParseFloat(v, 64)
		if err != nil {
			return 0, err
		}
		return floatToInt(math.Floor(f))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return floatToInt(math.RoundToEven(rv.Float()))
	}
	return 0, ErrUnsupported
}

func (r Reader) readUint(raw any) (uint64, error) {
	if s, ok := raw.(string); ok {
		if n, err := r.Culture.ParseUint(s, 64); err == nil {
			return n, nil
		}
		f, err := r.Culture.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return floatToUint(math.Floor(f))
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return floatToUint(math.RoundToEven(rv.Float()))
	}
	n, err := r.readInt(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errOverflow
	}
	return uint64(n), nil
}

func (r Reader) readFloat(raw any, bits int) (float64, error) {
	switch v := raw.(type) {
	case string:
		return r.Culture.ParseFloat(v, bits)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, ErrUnsupported
	}
	return f, nil
}

func toFloat(raw any) (float64, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOverflow
	}
	return int64(f), nil
}

func floatToUint(f float64) (uint64, error) {
	if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
		return 0, errOverflow
	}
	return uint64(f), nil
}

func (r Reader) scanSource(raw any, text string) any {
	switch v := raw.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return r.numericText(v)
	case bool, time.Time:
		return v
	}
	return text
}

// numericText returns number text in invariant form and any other text
// trimmed but otherwise unchanged.
func (r Reader) numericText(s string) string {
	if n, ok := r.Culture.numberText(s); ok {
		return n
	}
	return strings.TrimSpace(s)
}

func parseURL(text string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%q is not an absolute URI", text)
	}
	return u, nil
}

var spanPattern = regexp.MustCompile(`^(-)?(?:(\d+)\.)?(\d{1,2}):(\d{1,2})(?::(\d{1,2})(?:\.(\d{1,9}))?)?$`)

// ParseDuration parses "[-][d.]hh:mm[:ss[.fffffffff]]", a whole number of
// days, or a Go duration string such as "1h30m".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, err := strconv.ParseInt(s, 10, 32); err == nil {
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if m := spanPattern.FindStringSubmatch(s); m != nil {
		days, _ := strconv.Atoi(m[2])
		hours, _ := strconv.Atoi(m[3])
		minutes, _ := strconv.Atoi(m[4])
		seconds, _ := strconv.Atoi(m[5])
		if hours > 23 || minutes > 59 || seconds > 59 {
			return 0, fmt.Errorf("%q is not a valid duration", s)
		}
		d := time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
		if frac := m[6]; frac != "" {
			ns, _ := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
			d += time.Duration(ns)
		}
		if m[1] == "-" {
			d = -d
		}
		return d, nil
	}
	return time.ParseDuration(s)
}
