// Package exlinq maps typed Go records to and from spreadsheet and CSV data.
package exlinq

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/coerce"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/csvgrid"
)

// Options configures reading and writing.
type Options struct {
	// Culture names the locale used to parse numeric and date text, e.g. "de-DE".
	// Blank selects the invariant culture.
	Culture string
	// Location receives date/time values read from cells.
	// If nil, defaults to UTC.
	Location *time.Location
	// Logger receives debug traces of read and write decisions.
	// If nil, defaults to the logrus standard logger.
	Logger *logrus.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Location: time.UTC,
	}
}

// ResolveCulture returns the culture named by Culture.
func (o Options) ResolveCulture() (coerce.Culture, error) {
	return coerce.LookupCulture(o.Culture)
}

// ResolveLocation returns the location for date/time values.
func (o Options) ResolveLocation() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

// ResolveLogger returns the logger to trace to.
func (o Options) ResolveLogger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

// CSVOptions configures reading a CSV stream.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Comment starts a comment line when non-zero.
	Comment rune
	// TrimLeadingSpace ignores leading white space in a field.
	TrimLeadingSpace bool
	// LazyQuotes tolerates quotes in unquoted fields.
	LazyQuotes bool
	// Encoding names the text encoding, e.g. "windows-1252". Blank means UTF-8.
	Encoding string
	// Culture overrides the context culture for numeric and date text.
	// If blank, the context culture is used.
	Culture string
}

// DefaultCSVOptions returns comma separated UTF-8 options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ','}
}

func (o CSVOptions) gridOptions(sheetName string) (csvgrid.Options, error) {
	enc, err := csvgrid.EncodingByName(o.Encoding)
	if err != nil {
		return csvgrid.Options{}, err
	}
	return csvgrid.Options{
		Delimiter:        o.Delimiter,
		Comment:          o.Comment,
		TrimLeadingSpace: o.TrimLeadingSpace,
		LazyQuotes:       o.LazyQuotes,
		Encoding:         enc,
		SheetName:        sheetName,
	}, nil
}
