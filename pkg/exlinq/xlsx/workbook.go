// Package xlsx implements the grid capabilities on top of excelize.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/xuri/excelize/v2"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNotExcelize indicates a range that does not belong to an excelize worksheet.
var ErrNotExcelize = errors.New("range is not backed by an xlsx worksheet")

// Workbook adapts an excelize file to grid.Workbook.
type Workbook struct {
	file *excelize.File
	// fresh is set while the default sheet of a new file is still unused.
	fresh bool
}

// New creates an empty workbook. The first added worksheet replaces the
// default sheet.
func New() *Workbook {
	return &Workbook{file: excelize.NewFile(), fresh: true}
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &Workbook{file: f}, nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &Workbook{file: f}, nil
}

// Wrap adapts an already open excelize file.
func Wrap(f *excelize.File) *Workbook {
	return &Workbook{file: f}
}

// File returns the underlying excelize file.
func (b *Workbook) File() *excelize.File { return b.file }

func (b *Workbook) Close() error { return b.file.Close() }

// SaveAs writes the workbook to path.
func (b *Workbook) SaveAs(path string) error { return b.file.SaveAs(path) }

// Write writes the workbook to w.
func (b *Workbook) Write(w io.Writer) error { return b.file.Write(w) }

func (b *Workbook) Worksheets() ([]grid.Worksheet, error) {
	names := b.file.GetSheetList()
	out := make([]grid.Worksheet, len(names))
	for i, name := range names {
		out[i] = &Worksheet{file: b.file, name: name}
	}
	return out, nil
}

func (b *Workbook) AddWorksheet(name string) (grid.Worksheet, error) {
	for _, existing := range b.file.GetSheetList() {
		if strings.EqualFold(existing, name) && !b.fresh {
			return nil, fmt.Errorf("worksheet %q already exists", name)
		}
	}
	if b.fresh {
		b.fresh = false
		if err := b.file.SetSheetName(b.file.GetSheetName(0), name); err != nil {
			return nil, err
		}
		return &Worksheet{file: b.file, name: name}, nil
	}
	if _, err := b.file.NewSheet(name); err != nil {
		return nil, err
	}
	return &Worksheet{file: b.file, name: name}, nil
}

// Sheet returns the worksheet named name.
func (b *Workbook) Sheet(name string) (*Worksheet, bool) {
	for _, existing := range b.file.GetSheetList() {
		if strings.EqualFold(existing, name) {
			return &Worksheet{file: b.file, name: existing}, true
		}
	}
	return nil, false
}
