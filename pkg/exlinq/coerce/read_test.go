package coerce

import (
	"net/netip"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
)

type status string

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

func TestReadBoolSynonyms(t *testing.T) {
	sheet := NewReader(Invariant, nil)
	csv := NewCSVReader(Invariant, nil)

	for _, text := range []string{"true", "TRUE", "yes", "Y", " y "} {
		for _, r := range []Reader{sheet, csv} {
			v, err := r.ReadValue(text, text, typeOf[bool]())
			require.NoError(t, err, text)
			assert.Equal(t, true, v, text)
		}
	}
	for _, text := range []string{"false", "FALSE", "no", "N"} {
		for _, r := range []Reader{sheet, csv} {
			v, err := r.ReadValue(text, text, typeOf[bool]())
			require.NoError(t, err, text)
			assert.Equal(t, false, v, text)
		}
	}

	v, err := csv.ReadValue("1", "1", typeOf[bool]())
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = csv.ReadValue("0", "0", typeOf[bool]())
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = sheet.ReadValue("1", "1", typeOf[bool]())
	assert.Error(t, err)
	_, err = sheet.ReadValue("maybe", "maybe", typeOf[bool]())
	assert.Error(t, err)

	v, err = sheet.ReadValue(1.0, "1", typeOf[bool]())
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = sheet.ReadValue(0.0, "0", typeOf[bool]())
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestReadIntegers(t *testing.T) {
	r := NewReader(Invariant, nil)
	tests := []struct {
		name    string
		raw     any
		target  reflect.Type
		want    any
		wantErr bool
	}{
		{"text", "42", typeOf[int](), 42, false},
		{"text with fraction floors", "42.9", typeOf[int](), 42, false},
		{"negative fraction floors", "-1.5", typeOf[int](), -2, false},
		{"grouped text", "1,234", typeOf[int64](), int64(1234), false},
		{"number rounds to even", 2.5, typeOf[int](), 2, false},
		{"number rounds half up to even", 3.5, typeOf[int32](), int32(4), false},
		{"int64 raw", int64(7), typeOf[int16](), int16(7), false},
		{"overflow", 300.0, typeOf[int8](), nil, true},
		{"unsigned", "12", typeOf[uint8](), uint8(12), false},
		{"negative unsigned", -1.0, typeOf[uint](), nil, true},
		{"not a number", "abc", typeOf[int](), nil, true},
		{"date is not an int", time.Now(), typeOf[int](), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ReadValue(tt.raw, grid.FormatValue(tt.raw), tt.target)
			if tt.wantErr {
				var ce *ConversionError
				assert.ErrorAs(t, err, &ce)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFloatsWithCulture(t *testing.T) {
	tests := []struct {
		culture string
		text    string
		want    float64
	}{
		{"", "1,234.5", 1234.5},
		{"en-US", "1,234.5", 1234.5},
		{"de-DE", "1.234,5", 1234.5},
		{"fr-FR", "1 234,5", 1234.5},
		{"fr", "-0,25", -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.culture+" "+tt.text, func(t *testing.T) {
			c, err := LookupCulture(tt.culture)
			require.NoError(t, err)
			got, err := NewReader(c, nil).ReadValue(tt.text, tt.text, typeOf[float64]())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	got, err := NewReader(Invariant, nil).ReadValue(0.1, "0.1", typeOf[float32]())
	require.NoError(t, err)
	assert.Equal(t, float32(0.1), got)
}

func TestReadTime(t *testing.T) {
	de, err := LookupCulture("de-DE")
	require.NoError(t, err)
	us, err := LookupCulture("en-US")
	require.NoError(t, err)

	tests := []struct {
		name   string
		reader Reader
		raw    any
		want   time.Time
	}{
		{"serial", NewReader(Invariant, nil), 45000.5, time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC)},
		{"iso text", NewReader(Invariant, nil), "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"german text", NewReader(de, nil), "1.3.2024 10:30", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"us text", NewReader(us, nil), "3/1/2024 2:15 PM", time.Date(2024, 3, 1, 14, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reader.ReadValue(tt.raw, grid.FormatValue(tt.raw), typeOf[time.Time]())
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.(time.Time)), "got %v", got)
		})
	}

	_, err = NewReader(Invariant, nil).ReadValue(true, "TRUE", typeOf[time.Time]())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReadDuration(t *testing.T) {
	r := NewReader(Invariant, nil)
	tests := []struct {
		name string
		raw  any
		want time.Duration
	}{
		{"span with days", "1.02:03:04", 26*time.Hour + 3*time.Minute + 4*time.Second},
		{"span", "02:30", 2*time.Hour + 30*time.Minute},
		{"span with fraction", "00:00:01.5", 1500 * time.Millisecond},
		{"go duration", "1h30m", 90 * time.Minute},
		{"date text time of day", "2024-01-01 06:30:00", 6*time.Hour + 30*time.Minute},
		{"serial", 0.25, 6 * time.Hour},
		{"serial keeps time of day only", 45000.75, 18 * time.Hour},
		{"date value", time.Date(2024, 1, 1, 6, 30, 0, 0, time.UTC), 6*time.Hour + 30*time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ReadValue(tt.raw, grid.FormatValue(tt.raw), typeOf[time.Duration]())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.ReadValue("soon", "soon", typeOf[time.Duration]())
	assert.Error(t, err)
}

func TestReadIdentifiers(t *testing.T) {
	r := NewReader(Invariant, nil)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := r.ReadValue(id.String(), id.String(), typeOf[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = r.ReadValue("https://example.com/a?b=c", "https://example.com/a?b=c", typeOf[*url.URL]())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=c", got.(*url.URL).String())

	got, err = r.ReadValue("https://example.com", "https://example.com", typeOf[url.URL]())
	require.NoError(t, err)
	assert.Equal(t, "example.com", got.(url.URL).Host)

	_, err = r.ReadValue("/relative", "/relative", typeOf[*url.URL]())
	assert.Error(t, err)
	_, err = r.ReadValue("nope", "nope", typeOf[uuid.UUID]())
	assert.Error(t, err)
}

func TestReadPassThroughAndText(t *testing.T) {
	r := NewReader(Invariant, nil)

	got, err := r.ReadValue(1.5, "1.50", typeOf[string]())
	require.NoError(t, err)
	assert.Equal(t, "1.50", got)

	got, err = r.ReadValue("open", "open", typeOf[status]())
	require.NoError(t, err)
	assert.Equal(t, status("open"), got)

	got, err = r.ReadValue(1.5, "1.50", typeOf[any]())
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	got, err = r.ReadValue(nil, "", typeOf[int]())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.ReadValue("", "", typeOf[string]())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadPointers(t *testing.T) {
	r := NewReader(Invariant, nil)

	got, err := r.ReadValue(5.0, "5", typeOf[*int]())
	require.NoError(t, err)
	require.IsType(t, (*int)(nil), got)
	assert.Equal(t, 5, *got.(*int))

	got, err = r.ReadValue(nil, "", typeOf[*int]())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadScannerAndTextUnmarshaler(t *testing.T) {
	r := NewReader(Invariant, nil)

	got, err := r.ReadValue("123.45", "123.45", typeOf[pgtype.Numeric]())
	require.NoError(t, err)
	n := got.(pgtype.Numeric)
	assert.True(t, n.Valid)
	f, err := n.Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, 123.45, f.Float64, 1e-9)

	got, err = r.ReadValue(2.5, "2.50", typeOf[pgtype.Numeric]())
	require.NoError(t, err)
	f, err = got.(pgtype.Numeric).Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f.Float64, 1e-9)

	got, err = r.ReadValue("192.168.1.10", "192.168.1.10", typeOf[netip.Addr]())
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.168.1.10"), got)

	de, err := LookupCulture("de-DE")
	require.NoError(t, err)
	r = NewCSVReader(de, nil)

	got, err = r.ReadValue("1.234,5", "1.234,5", typeOf[pgtype.Numeric]())
	require.NoError(t, err)
	f, err = got.(pgtype.Numeric).Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, f.Float64, 1e-9)

	got, err = r.ReadValue(" -0,25 ", " -0,25 ", typeOf[pgtype.Numeric]())
	require.NoError(t, err)
	f, err = got.(pgtype.Numeric).Float64Value()
	require.NoError(t, err)
	assert.InDelta(t, -0.25, f.Float64, 1e-9)

	got, err = r.ReadValue("192.168.1.10", "192.168.1.10", typeOf[netip.Addr]())
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.168.1.10"), got)
}

func TestNumberText(t *testing.T) {
	de, err := LookupCulture("de-DE")
	require.NoError(t, err)
	fr, err := LookupCulture("fr-FR")
	require.NoError(t, err)

	tests := []struct {
		name    string
		culture Culture
		in      string
		want    string
		ok      bool
	}{
		{"invariant grouped", Invariant, "1,234.5", "1234.5", true},
		{"invariant plain", Invariant, " 42 ", "42", true},
		{"german grouped", de, "1.234.567,89", "1234567.89", true},
		{"german negative", de, "-0,5", "-0.5", true},
		{"french space groups", fr, "12 345,6", "12345.6", true},
		{"german date", de, "31.12.2023", "", false},
		{"address", Invariant, "192.168.1.10", "", false},
		{"misplaced group", Invariant, "12,34", "", false},
		{"text", de, "abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.culture.numberText(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadUnsupported(t *testing.T) {
	r := NewReader(Invariant, nil)
	for _, target := range []reflect.Type{typeOf[chan int](), typeOf[complex128](), typeOf[map[string]int]()} {
		_, err := r.ReadValue("x", "x", target)
		assert.ErrorIs(t, err, ErrUnsupported, target.String())
	}
}

func TestReadCell(t *testing.T) {
	ws := grid.NewMemoryWorksheet("Sheet1")
	require.NoError(t, ws.SetValue(1, 1, 12.0))

	got, err := NewReader(Invariant, nil).Read(grid.CellAt(ws, 1, 1), typeOf[int]())
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	got, err = NewReader(Invariant, nil).Read(grid.CellAt(ws, 2, 1), typeOf[int]())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLookupCulture(t *testing.T) {
	tests := []struct {
		name    string
		decimal string
	}{
		{"", "."},
		{"invariant", "."},
		{"en-US", "."},
		{"en-GB", "."},
		{"de-DE", ","},
		{"de-AT", ","},
		{"fr-FR", ","},
		{"ja-JP", "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LookupCulture(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.decimal, c.Decimal)
		})
	}

	_, err := LookupCulture("not a culture!")
	assert.Error(t, err)
}
