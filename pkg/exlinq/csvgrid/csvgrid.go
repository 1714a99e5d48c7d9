// Package csvgrid reads delimited text into an in-memory worksheet.
package csvgrid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options configures CSV parsing.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Comment starts a comment line when non-zero.
	Comment rune
	// TrimLeadingSpace ignores leading white space in a field.
	TrimLeadingSpace bool
	// LazyQuotes tolerates quotes in unquoted fields.
	LazyQuotes bool
	// Encoding decodes the input. Nil means UTF-8. A byte order mark
	// always takes precedence.
	Encoding encoding.Encoding
	// SheetName names the resulting worksheet.
	SheetName string
}

// DefaultOptions returns comma separated UTF-8 options.
func DefaultOptions() Options {
	return Options{Delimiter: ',', SheetName: "csv"}
}

// EncodingByName resolves an encoding such as "utf-16", "windows-1252" or
// "shift_jis". Blank means UTF-8.
func EncodingByName(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Reader yields the fields of one line per call.
type Reader struct {
	csv *csv.Reader
}

// NewReader returns a line reader over r.
func NewReader(r io.Reader, opts Options) *Reader {
	enc := opts.Encoding
	if enc == nil {
		enc = unicode.UTF8
	}
	decoded := transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))

	cr := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.Comment = opts.Comment
	cr.TrimLeadingSpace = opts.TrimLeadingSpace
	cr.LazyQuotes = opts.LazyQuotes
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Read returns the next line. It returns io.EOF at end of data.
func (r *Reader) Read() ([]string, error) {
	return r.csv.Read()
}

// Table is a fully loaded CSV file.
type Table struct {
	// Sheet holds one cell per field; empty fields are left unset.
	Sheet *grid.MemoryWorksheet
	// Rows is the number of lines read.
	Rows int
	// Columns is the widest line's field count.
	Columns int
}

// Range returns the rectangle spanning every line and field, or false
// when the input held no lines.
func (t *Table) Range() (grid.Range, bool) {
	if t.Rows == 0 || t.Columns == 0 {
		return grid.Range{}, false
	}
	return grid.NewRange(t.Sheet, 1, 1, t.Rows, t.Columns), true
}

// Load reads all of r.
func Load(r io.Reader, opts Options) (*Table, error) {
	name := opts.SheetName
	if name == "" {
		name = DefaultOptions().SheetName
	}
	table := &Table{Sheet: grid.NewMemoryWorksheet(name)}

	reader := NewReader(r, opts)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		table.Rows++
		table.Columns = max(table.Columns, len(fields))
		for i, field := range fields {
			if field == "" {
				continue
			}
			if err := table.Sheet.SetValue(table.Rows, i+1, field); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}
