package csvio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, input string, opts ...Option) *Parser {
	t.Helper()
	p, err := New(strings.NewReader(input), opts...)
	require.NoError(t, err)
	require.NoError(t, p.ReadHeader())
	return p
}

func TestParserReadsRows(t *testing.T) {
	p := newParser(t, "Order ID,Region\nUS-1,West\nUS-2,East\n")

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].LineNumber)
	assert.Equal(t, "US-1", rows[0].Get("Order ID"))
	assert.Equal(t, "West", rows[0].Get("Region"))
	assert.Equal(t, 3, rows[1].LineNumber)
	assert.Equal(t, "East", rows[1].Get("Region"))
}

func TestParserStripsBOM(t *testing.T) {
	p := newParser(t, "\xEF\xBB\xBFOrder ID,Region\nUS-1,West\n")

	assert.True(t, p.HasColumn("Order ID"))
	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "US-1", rows[0].Get("Order ID"))
}

func TestParserQuotedFields(t *testing.T) {
	p := newParser(t, `Product Name,Sales`+"\n"+`"Chair, Swivel","$1,234.50"`+"\n")

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Chair, Swivel", rows[0].Get("Product Name"))
	assert.Equal(t, "$1,234.50", rows[0].Get("Sales"))
}

func TestParserSkipsEmptyRows(t *testing.T) {
	p := newParser(t, "A,B\n1,2\n,\n3,4\n")

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[1].Get("A"))
}

func TestParserMalformedRow(t *testing.T) {
	p := newParser(t, "A,B,C\n1,2,3\n1,2\n")

	_, err := p.ReadAll()
	require.Error(t, err)

	var re RowError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, CodeMalformedRow, re.Code)
	assert.Equal(t, 3, re.Row)
}

func TestParserMissingColumns(t *testing.T) {
	p := newParser(t, "Order ID,Region\n")

	missing := p.MissingColumns([]string{"Order ID", "Returned", "Region"})
	assert.Equal(t, []string{"Returned"}, missing)
	assert.Nil(t, p.MissingColumns([]string{"Order ID"}))
}

func TestParserEmptyFile(t *testing.T) {
	_, err := New(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParserMissingHeader(t *testing.T) {
	p, err := New(strings.NewReader("\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, p.ReadHeader(), ErrMissingHeader)
}

func TestParserInvalidEncoding(t *testing.T) {
	_, err := New(strings.NewReader("A,B\n\xFF\xFE,2\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParserCustomDelimiter(t *testing.T) {
	p := newParser(t, "A;B\n1;2\n", WithDelimiter(';'))

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].Get("B"))
}

func TestErrorCollectionCap(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 1; i <= 5; i++ {
		ec.Add(NewRowError(i, "Sales", CodeParseCurrency, "bad value"))
	}

	assert.True(t, ec.HasErrors())
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 5, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
}

func TestRowErrorMessage(t *testing.T) {
	err := NewRowErrorWithValue(7, "Order Date", CodeParseDate, "date must match 2006-01-02", "13/13/2020")
	msg := err.Error()
	assert.Contains(t, msg, "row 7")
	assert.Contains(t, msg, "Order Date")
	assert.Contains(t, msg, "13/13/2020")
}
