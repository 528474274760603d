package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/retailops/analytics/internal/domain/sales"
	"github.com/retailops/analytics/internal/infrastructure/csvio"
)

const (
	colReturned       = "Returned"
	colReturnsOrderID = "Order ID"
	colReturnsRegion  = "Region"
)

var returnsColumns = []string{colReturned, colReturnsOrderID, colReturnsRegion}

// LoadReturns parses and stores the returns source. Order ids are not checked
// against the order lines here; orphans stay queryable through the orphan
// returns report.
func (s *Service) LoadReturns(ctx context.Context, r io.Reader) (*LoadResult, error) {
	result := s.newResult(sales.SourceReturns)

	parser, err := openParser(r, result.Source, returnsColumns)
	if err != nil {
		return nil, err
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", result.Source, err)
	}
	result.TotalRows = len(rows)

	ec := csvio.NewErrorCollection(s.maxRowErrors)
	returns := make([]sales.Return, 0, len(rows))

	for _, row := range rows {
		ret := sales.Return{
			Returned: row.Get(colReturned),
			OrderID:  row.Get(colReturnsOrderID),
			Region:   row.Get(colReturnsRegion),
		}
		if ret.OrderID == "" {
			ec.Add(csvio.NewRowError(row.LineNumber, colReturnsOrderID, csvio.CodeRequiredField,
				fmt.Sprintf("field %q is required", colReturnsOrderID)))
			continue
		}
		returns = append(returns, ret)
	}

	return s.finish(result, ec, func() error {
		return s.repo.ReplaceReturns(ctx, returns)
	})
}
