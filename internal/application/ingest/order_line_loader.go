package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/retailops/analytics/internal/domain/sales"
	"github.com/retailops/analytics/internal/infrastructure/csvio"
)

// Column names of the order lines source.
const (
	colOrderID       = "Order ID"
	colOrderDate     = "Order Date"
	colShipDate      = "Ship Date"
	colShipMode      = "Ship Mode"
	colCustomerName  = "Customer Name"
	colSegment       = "Segment"
	colCountry       = "Country"
	colCity          = "City"
	colState         = "State"
	colPostalCode    = "Postal Code"
	colMarket        = "Market"
	colRegion        = "Region"
	colProductID     = "Product ID"
	colCategory      = "Category"
	colSubCategory   = "Sub-Category"
	colProductName   = "Product Name"
	colSales         = "Sales"
	colQuantity      = "Quantity"
	colDiscount      = "Discount"
	colProfit        = "Profit"
	colShippingCost  = "Shipping Cost"
	colOrderPriority = "Order Priority"
)

// Postal Code is deliberately absent: the source may omit the column
// entirely and rows may leave it blank.
var orderLineColumns = []string{
	colOrderID, colOrderDate, colShipDate, colShipMode, colCustomerName,
	colSegment, colCountry, colCity, colState, colMarket, colRegion,
	colProductID, colCategory, colSubCategory, colProductName,
	colSales, colQuantity, colDiscount, colProfit, colShippingCost,
	colOrderPriority,
}

// LoadOrderLines parses, cleans and stores the order lines source. All rows
// are validated before anything is written; any row error rejects the file.
func (s *Service) LoadOrderLines(ctx context.Context, r io.Reader) (*LoadResult, error) {
	result := s.newResult(sales.SourceOrderLines)

	parser, err := openParser(r, result.Source, orderLineColumns)
	if err != nil {
		return nil, err
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", result.Source, err)
	}
	result.TotalRows = len(rows)

	ec := csvio.NewErrorCollection(s.maxRowErrors)
	seen := make(map[string]int, len(rows))
	lines := make([]sales.OrderLine, 0, len(rows))

	for _, row := range rows {
		line, ok := s.cleanOrderLine(row, ec)
		if !ok {
			continue
		}

		key := line.NaturalKey()
		if first, dup := seen[key]; dup {
			ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colOrderID, csvio.CodeDuplicateKey,
				fmt.Sprintf("duplicate order line key, first seen at row %d", first), key))
			continue
		}
		seen[key] = row.LineNumber

		lines = append(lines, *line)
	}

	return s.finish(result, ec, func() error {
		return s.repo.ReplaceOrderLines(ctx, lines)
	})
}

// cleanOrderLine converts one raw row to a domain order line, recording
// every failing column so one bad row reports all of its defects at once.
func (s *Service) cleanOrderLine(row *csvio.Row, ec *csvio.ErrorCollection) (*sales.OrderLine, bool) {
	before := ec.TotalCount()

	line := &sales.OrderLine{
		OrderID:       row.Get(colOrderID),
		ShipMode:      row.Get(colShipMode),
		CustomerName:  row.Get(colCustomerName),
		Segment:       row.Get(colSegment),
		Country:       row.Get(colCountry),
		City:          row.Get(colCity),
		State:         row.Get(colState),
		Market:        row.Get(colMarket),
		Region:        row.Get(colRegion),
		ProductID:     row.Get(colProductID),
		Category:      row.Get(colCategory),
		SubCategory:   row.Get(colSubCategory),
		ProductName:   row.Get(colProductName),
		OrderPriority: row.Get(colOrderPriority),
	}

	for _, req := range []struct{ column, value string }{
		{colOrderID, line.OrderID},
		{colProductID, line.ProductID},
		{colRegion, line.Region},
	} {
		if req.value == "" {
			ec.Add(csvio.NewRowError(row.LineNumber, req.column, csvio.CodeRequiredField,
				fmt.Sprintf("field %q is required", req.column)))
		}
	}

	if postal := row.Get(colPostalCode); postal != "" {
		line.PostalCode = &postal
	}

	var err error
	if line.OrderDate, err = sales.CleanDate(row.Get(colOrderDate)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colOrderDate, csvio.CodeParseDate,
			err.Error(), row.Get(colOrderDate)))
	}
	if line.ShipDate, err = sales.CleanDate(row.Get(colShipDate)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colShipDate, csvio.CodeParseDate,
			err.Error(), row.Get(colShipDate)))
	}
	if line.Sales, err = sales.CleanCurrency(row.Get(colSales)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colSales, csvio.CodeParseCurrency,
			err.Error(), row.Get(colSales)))
	}
	if line.Profit, err = sales.CleanCurrency(row.Get(colProfit)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colProfit, csvio.CodeParseCurrency,
			err.Error(), row.Get(colProfit)))
	}
	if line.ShippingCost, err = sales.CleanCurrency(row.Get(colShippingCost)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colShippingCost, csvio.CodeParseCurrency,
			err.Error(), row.Get(colShippingCost)))
	}
	if line.Discount, err = sales.CleanDiscount(row.Get(colDiscount)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colDiscount, csvio.CodeParseNumber,
			err.Error(), row.Get(colDiscount)))
	}
	if line.Quantity, err = sales.CleanQuantity(row.Get(colQuantity)); err != nil {
		ec.Add(csvio.NewRowErrorWithValue(row.LineNumber, colQuantity, csvio.CodeParseNumber,
			err.Error(), row.Get(colQuantity)))
	}

	return line, ec.TotalCount() == before
}
