// Package report exposes the analytical query catalog as a named-query
// service over the report repositories.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailops/analytics/internal/domain/report"
	"github.com/retailops/analytics/internal/infrastructure/config"
)

// ErrUnknownQuery is returned by Run for a name outside the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// Query is one catalog entry. Rows is whatever slice (or single-row struct)
// the underlying repository method produces.
type Query struct {
	Name        string
	Description string
	run         func() (any, error)
}

// Result pairs a query name with its rows and execution time.
type Result struct {
	Name    string
	Rows    any
	Elapsed time.Duration
}

// Catalog resolves query names to repository calls. Tunables from the report
// config are parsed once at construction.
type Catalog struct {
	logger  *zap.Logger
	queries map[string]Query
	order   []string
}

// NewCatalog builds the catalog over both report repositories. It fails when
// a configured threshold does not parse as a decimal.
func NewCatalog(salesRepo report.SalesReportRepository, returnsRepo report.ReturnsReportRepository, cfg config.ReportConfig, logger *zap.Logger) (*Catalog, error) {
	highValue, err := decimal.NewFromString(cfg.HighValueThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid high value threshold %q: %w", cfg.HighValueThreshold, err)
	}
	deepDiscount, err := decimal.NewFromString(cfg.DeepDiscountMin)
	if err != nil {
		return nil, fmt.Errorf("invalid deep discount minimum %q: %w", cfg.DeepDiscountMin, err)
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}

	c := &Catalog{
		logger:  logger,
		queries: make(map[string]Query),
	}

	for _, q := range []Query{
		{"sales-by-category", "Total sales per category and sub-category",
			func() (any, error) { return salesRepo.GetSalesByCategory() }},
		{"avg-discount-by-segment", "Average discount per customer segment",
			func() (any, error) { return salesRepo.GetAvgDiscountBySegment() }},
		{"category-profit", "Total sales and profit per category",
			func() (any, error) { return salesRepo.GetCategoryProfit() }},
		{"sales-summary", "Dataset-wide totals and distinct counts",
			func() (any, error) { return salesRepo.GetSalesSummary() }},
		{"monthly-sales", "Total sales per calendar month",
			func() (any, error) { return salesRepo.GetMonthlySales() }},
		{"region-profit-by-year", "Total profit per region and year",
			func() (any, error) { return salesRepo.GetRegionProfitByYear() }},
		{"order-value-tiers", "Order lines bucketed into High/Medium/Low value tiers",
			func() (any, error) { return salesRepo.GetOrderValueTiers() }},
		{"running-sales-by-region", "Running sales total per region in date order",
			func() (any, error) { return salesRepo.GetRunningSalesByRegion() }},
		{"product-profit-ranking", "Products ranked by total profit, ties share rank",
			func() (any, error) { return salesRepo.GetProductProfitRanking() }},
		{"high-value-sales", fmt.Sprintf("Order lines with sales above %s", highValue),
			func() (any, error) { return salesRepo.GetHighValueSales(highValue) }},
		{"deep-discounts", fmt.Sprintf("Order lines discounted above %s", deepDiscount),
			func() (any, error) { return salesRepo.GetDeepDiscounts(deepDiscount) }},
		{"avg-profit-by-tier", "Average profit per value tier",
			func() (any, error) { return salesRepo.GetAvgProfitByTier() }},
		{"monthly-sales-growth", "Month-over-month sales growth percentage",
			func() (any, error) { return salesRepo.GetMonthlySalesGrowth() }},
		{"product-pairs", fmt.Sprintf("Top %d product pairs bought in the same order", topN),
			func() (any, error) { return salesRepo.GetProductPairs(topN) }},
		{"shipping-delay-by-mode", "Average days from order to ship per ship mode",
			func() (any, error) { return salesRepo.GetShippingDelayByMode() }},
		{"people-by-region", "Manager count per region",
			func() (any, error) { return returnsRepo.GetPeopleByRegion() }},
		{"manager-performance", "Sales metrics per manager through the region join",
			func() (any, error) { return returnsRepo.GetManagerPerformance() }},
		{"return-rate", "Share of distinct orders that were returned",
			func() (any, error) { return returnsRepo.GetReturnRate() }},
		{"returns-by-region", "Returned orders per region",
			func() (any, error) { return returnsRepo.GetReturnsByRegion() }},
		{"monthly-return-trend", "Returned orders per year and month",
			func() (any, error) { return returnsRepo.GetMonthlyReturnTrend() }},
		{"profit-lost-to-returns", "Profit on returned order lines per region",
			func() (any, error) { return returnsRepo.GetProfitLostToReturns() }},
		{"most-returned-products", fmt.Sprintf("Top %d products by returned line count", topN),
			func() (any, error) { return returnsRepo.GetMostReturnedProducts(topN) }},
		{"ship-mode-return-rate", "Return rate per ship mode",
			func() (any, error) { return returnsRepo.GetShipModeReturnRate() }},
		{"orphan-returns", "Returns whose order id matches no order line",
			func() (any, error) { return returnsRepo.GetOrphanReturns() }},
	} {
		c.queries[q.Name] = q
		c.order = append(c.order, q.Name)
	}

	return c, nil
}

// Names lists the catalog in its canonical run order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Describe returns the query entry for name.
func (c *Catalog) Describe(name string) (Query, bool) {
	q, ok := c.queries[name]
	return q, ok
}

// Run executes one named query.
func (c *Catalog) Run(name string) (*Result, error) {
	q, ok := c.queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownQuery, name, c.suggestions())
	}

	start := time.Now()
	rows, err := q.run()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	elapsed := time.Since(start)

	c.logger.Debug("Query executed",
		zap.String("query", name),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{Name: name, Rows: rows, Elapsed: elapsed}, nil
}

// RunAll executes every catalog query in order, stopping on the first error.
func (c *Catalog) RunAll() ([]*Result, error) {
	results := make([]*Result, 0, len(c.order))
	for _, name := range c.order {
		res, err := c.Run(name)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Catalog) suggestions() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}
