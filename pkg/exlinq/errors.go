package exlinq

import (
	"errors"
	"fmt"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/xlsx"
)

// ErrInvalidData matches every DataError.
var ErrInvalidData = errors.New("invalid data")

// Data error kinds.
var (
	ErrSheetMissing      = errors.New("sheet missing")
	ErrSheetEmpty        = errors.New("sheet empty")
	ErrDuplicateSheet    = errors.New("duplicate sheet")
	ErrColumnMissing     = errors.New("column missing")
	ErrDuplicateColumn   = errors.New("duplicate column")
	ErrColumnDataMissing = errors.New("column data missing")
	ErrRowEmpty          = errors.New("row empty")
	ErrParseData         = errors.New("parse data")
)

// Contract errors raised for invalid declarations or engine calls.
var (
	ErrArgument           = models.ErrArgument
	ErrArgumentNil        = models.ErrArgumentNil
	ErrDuplicateName      = models.ErrDuplicateName
	ErrArgumentOutOfRange = models.ErrArgumentOutOfRange
	ErrInvalidOperation   = models.ErrInvalidOperation
	ErrNotFound           = models.ErrNotFound
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = xlsx.ErrFileNotFound

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = xlsx.ErrInvalidFormat

// DataError represents workbook content that does not fit the model.
type DataError struct {
	Kind   error  // one of the kind sentinels, e.g. ErrColumnMissing
	Sheet  string // model sheet name
	Column string // model column name, if any
	Cell   string // cell or row address, if any
	Err    error  // underlying conversion error, if any
}

func (e *DataError) Error() string {
	var msg string
	switch e.Kind {
	case ErrSheetMissing:
		msg = fmt.Sprintf("Missing sheet '%s'", e.Sheet)
	case ErrSheetEmpty:
		msg = fmt.Sprintf("No data in sheet '%s'", e.Sheet)
	case ErrDuplicateSheet:
		msg = fmt.Sprintf("Duplicate sheet '%s'", e.Sheet)
	case ErrColumnMissing:
		msg = fmt.Sprintf("Missing column '%s' in sheet '%s'", e.Column, e.Sheet)
	case ErrDuplicateColumn:
		msg = fmt.Sprintf("Duplicate column '%s' in sheet '%s'", e.Column, e.Sheet)
	case ErrColumnDataMissing:
		msg = fmt.Sprintf("Missing data in cell %s within column '%s' on sheet '%s'", e.Cell, e.Column, e.Sheet)
	case ErrRowEmpty:
		msg = fmt.Sprintf("Empty row %s on sheet '%s'", e.Cell, e.Sheet)
	case ErrParseData:
		msg = fmt.Sprintf("Could not parse cell %s within column '%s' on sheet '%s'", e.Cell, e.Column, e.Sheet)
	default:
		msg = fmt.Sprintf("invalid data in sheet '%s'", e.Sheet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() []error {
	errs := []error{ErrInvalidData}
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewDataError creates a new DataError.
func NewDataError(kind error, sheet, column, cell string, err error) *DataError {
	return &DataError{
		Kind:   kind,
		Sheet:  sheet,
		Column: column,
		Cell:   cell,
		Err:    err,
	}
}
