// Package csvio reads the delimited source files of the pipeline: UTF-8,
// one header row, comma-separated, double-quote enclosed records.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a headered CSV stream and maps each field to its column name.
type Parser struct {
	delimiter  rune
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
}

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter (default comma).
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// New creates a parser over r, stripping a UTF-8 BOM if present and
// validating the stream is UTF-8.
func New(r io.Reader, opts ...Option) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	// Field count is validated against the header once it is known; a row
	// with the wrong width is a malformed-row load error, not a short read.
	p.reader.FieldsPerRecord = -1

	return p, nil
}

func checkUTF8(r *bufio.Reader) error {
	const probe = 4096
	content, err := r.Peek(probe)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to probe encoding: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content[:trimPartialRune(content)]) {
		return ErrInvalidEncoding
	}
	return nil
}

// trimPartialRune drops the bytes of a rune cut off by the probe window.
func trimPartialRune(b []byte) int {
	end := len(b)
	for i := 0; i < 3 && end > 0; i++ {
		if utf8.RuneStart(b[end-1]) {
			if !utf8.Valid(b[end-1:]) {
				end--
			}
			break
		}
		end--
	}
	return end
}

// ReadHeader consumes the header row and builds the column index.
func (p *Parser) ReadHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		p.headers[i] = h
		p.headerMap[h] = i
	}
	p.currentRow = 1

	return nil
}

// Headers returns the column names in file order.
func (p *Parser) Headers() []string {
	return p.headers
}

// HasColumn reports whether the header row contains name.
func (p *Parser) HasColumn(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MissingColumns returns the required column names absent from the header.
func (p *Parser) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !p.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is one parsed data row. LineNumber is 1-based and counts the header.
type Row struct {
	LineNumber int
	Fields     map[string]string
}

// Get returns the value of the named column, "" if absent.
func (r *Row) Get(column string) string {
	return r.Fields[column]
}

// IsEmpty reports whether every field of the row is blank.
func (r *Row) IsEmpty() bool {
	for _, v := range r.Fields {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. A row whose field count differs from the
// header width is reported as a malformed row.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", p.currentRow, err)
	}
	if len(record) != len(p.headers) {
		return nil, NewRowError(p.currentRow, "", CodeMalformedRow,
			fmt.Sprintf("expected %d fields, got %d", len(p.headers), len(record)))
	}

	row := &Row{
		LineNumber: p.currentRow,
		Fields:     make(map[string]string, len(p.headers)),
	}
	for i, h := range p.headers {
		row.Fields[h] = strings.TrimSpace(record[i])
	}

	return row, nil
}

// ReadAll reads every remaining data row, skipping completely empty ones.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
