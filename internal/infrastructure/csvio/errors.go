package csvio

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes.
const (
	CodeMalformedRow  = "ERR_LOAD_MALFORMED_ROW"
	CodeMissingColumn = "ERR_LOAD_MISSING_COLUMN"
	CodeRequiredField = "ERR_LOAD_REQUIRED_FIELD"
	CodeDuplicateKey  = "ERR_LOAD_DUPLICATE_KEY"
	CodeParseDate     = "ERR_PARSE_DATE"
	CodeParseCurrency = "ERR_PARSE_CURRENCY"
	CodeParseNumber   = "ERR_PARSE_NUMBER"
)

var (
	// ErrEmptyFile is returned when the source contains no bytes.
	ErrEmptyFile = errors.New("source file is empty")

	// ErrInvalidEncoding is returned when the source is not UTF-8.
	ErrInvalidEncoding = errors.New("source file is not valid UTF-8")

	// ErrMissingHeader is returned when the source has no header row.
	ErrMissingHeader = errors.New("source file missing header row")
)

// RowError is an error tied to a specific row and column of a source file.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "row %d", e.Row)
	if e.Column != "" {
		fmt.Fprintf(&sb, ", column %q", e.Column)
	}
	fmt.Fprintf(&sb, ": %s", e.Message)
	if e.Value != "" {
		fmt.Fprintf(&sb, " (raw value %q)", e.Value)
	}
	return sb.String()
}

// NewRowError creates a RowError without a captured value.
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue creates a RowError capturing the offending raw value.
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message, Value: value}
}

// ErrorCollection accumulates row errors up to a cap so a pathological file
// cannot balloon a load result.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection keeping at most maxErrors entries.
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records an error; entries beyond the cap are counted but dropped.
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors.
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the number of errors seen, including dropped ones.
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether anything was recorded.
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated reports whether entries were dropped by the cap.
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.totalCount)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
