package csvgrid

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestLoad(t *testing.T) {
	input := "Name,Qty,Note\n\"Smith, J\",3,\nDoe,,\"multi\nline\"\n"

	table, err := Load(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Rows)
	assert.Equal(t, 3, table.Columns)

	r, ok := table.Range()
	require.True(t, ok)
	assert.Equal(t, "A1:C3", r.Address())

	tests := []struct {
		row, col int
		want     any
	}{
		{1, 1, "Name"},
		{2, 1, "Smith, J"},
		{2, 2, "3"},
		{2, 3, nil},
		{3, 2, nil},
		{3, 3, "multi\nline"},
	}
	for _, tt := range tests {
		got, err := table.Sheet.Value(tt.row, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadOptions(t *testing.T) {
	input := "# exported\na;b\n  1;2;3\n"
	opts := Options{Delimiter: ';', Comment: '#', TrimLeadingSpace: true, SheetName: "Data"}

	table, err := Load(strings.NewReader(input), opts)
	require.NoError(t, err)
	assert.Equal(t, "Data", table.Sheet.Name())
	assert.Equal(t, 2, table.Rows)
	assert.Equal(t, 3, table.Columns)

	v, err := table.Sheet.Value(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestLoadEmpty(t *testing.T) {
	table, err := Load(strings.NewReader(""), DefaultOptions())
	require.NoError(t, err)
	_, ok := table.Range()
	assert.False(t, ok)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(strings.NewReader("a,\"b\nc"), DefaultOptions())
	assert.Error(t, err)
}

func TestLoadEncodings(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("Größe\nÄpfel\n")
	require.NoError(t, err)
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Größe\nÄpfel\n")
	require.NoError(t, err)
	windows1252, err := EncodingByName("windows-1252")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		opts  Options
	}{
		{"utf-8", "Größe\nÄpfel\n", DefaultOptions()},
		{"utf-8 bom", "\ufeffGröße\nÄpfel\n", DefaultOptions()},
		{"utf-16 bom", utf16, DefaultOptions()},
		{"latin1", latin1, Options{Encoding: charmap.ISO8859_1}},
		{"windows-1252 by name", latin1, Options{Encoding: windows1252}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(bytes.NewReader([]byte(tt.input)), tt.opts)
			require.NoError(t, err)
			first, err := table.Sheet.Text(1, 1)
			require.NoError(t, err)
			assert.Equal(t, "Größe", first)
			second, err := table.Sheet.Text(2, 1)
			require.NoError(t, err)
			assert.Equal(t, "Äpfel", second)
		})
	}

	_, err = EncodingByName("no-such-encoding")
	assert.Error(t, err)
}

func TestReaderEOF(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\n"), DefaultOptions())
	fields, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fields)
	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}
