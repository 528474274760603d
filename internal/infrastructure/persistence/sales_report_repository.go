package persistence

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/analytics/internal/domain/report"
)

var oneHundred = decimal.NewFromInt(100)

// GormSalesReportRepository implements report.SalesReportRepository on the
// SQLite store. Set-based shapes stay in SQL; ordered scans (running totals,
// competition ranking, month-over-month growth) fetch ordered rows and
// combine them in Go so the tie-break rules are explicit.
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository.
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// GetSalesByCategory returns total sales per (category, sub-category).
func (r *GormSalesReportRepository) GetSalesByCategory() ([]report.CategorySales, error) {
	var results []report.CategorySales
	err := r.db.Table("order_lines").
		Select(`
			category,
			sub_category,
			COALESCE(SUM(sales), 0) as total_sales
		`).
		Group("category, sub_category").
		Order("total_sales DESC, category ASC, sub_category ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	return results, nil
}

// GetAvgDiscountBySegment returns the average discount per segment.
func (r *GormSalesReportRepository) GetAvgDiscountBySegment() ([]report.SegmentDiscount, error) {
	var results []report.SegmentDiscount
	err := r.db.Table("order_lines").
		Select(`
			segment,
			COALESCE(AVG(discount), 0) as avg_discount
		`).
		Group("segment").
		Order("avg_discount DESC, segment ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("avg discount by segment: %w", err)
	}
	return results, nil
}

// GetCategoryProfit returns total sales and profit per category.
func (r *GormSalesReportRepository) GetCategoryProfit() ([]report.CategoryProfit, error) {
	var results []report.CategoryProfit
	err := r.db.Table("order_lines").
		Select(`
			category,
			COALESCE(SUM(sales), 0) as total_sales,
			COALESCE(SUM(profit), 0) as total_profit
		`).
		Group("category").
		Order("total_profit DESC, category ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("category profit: %w", err)
	}
	return results, nil
}

// GetSalesSummary returns the single-row dataset overview.
func (r *GormSalesReportRepository) GetSalesSummary() (*report.SalesSummary, error) {
	var summary report.SalesSummary
	err := r.db.Table("order_lines").
		Select(`
			COUNT(DISTINCT customer_name) as distinct_customers,
			COUNT(DISTINCT order_id) as distinct_orders,
			COALESCE(SUM(sales), 0) as total_sales,
			COALESCE(SUM(profit), 0) as total_profit,
			COALESCE(AVG(discount), 0) as avg_discount
		`).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &summary, nil
}

// GetMonthlySales returns total sales per calendar month, ordered by month
// number. The month name is derived in Go; SQLite only supplies the number.
func (r *GormSalesReportRepository) GetMonthlySales() ([]report.MonthlySales, error) {
	var results []report.MonthlySales
	err := r.db.Table("order_lines").
		Select(`
			CAST(strftime('%m', order_date) AS INTEGER) as month_number,
			COALESCE(SUM(sales), 0) as total_sales
		`).
		Group("month_number").
		Order("month_number ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	for i := range results {
		results[i].MonthName = time.Month(results[i].MonthNumber).String()
	}
	return results, nil
}

// GetRegionProfitByYear returns total profit per (year, region).
func (r *GormSalesReportRepository) GetRegionProfitByYear() ([]report.RegionYearProfit, error) {
	var results []report.RegionYearProfit
	err := r.db.Table("order_lines").
		Select(`
			CAST(strftime('%Y', order_date) AS INTEGER) as year,
			region,
			COALESCE(SUM(profit), 0) as total_profit
		`).
		Group("year, region").
		Order("year ASC, region ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("region profit by year: %w", err)
	}
	return results, nil
}

// GetOrderValueTiers tags each order row with its value tier. The CASE
// expression comes from the same ladder the bucketed averages use.
func (r *GormSalesReportRepository) GetOrderValueTiers() ([]report.OrderValueTier, error) {
	var results []report.OrderValueTier
	err := r.db.Table("order_lines").
		Select(fmt.Sprintf(`
			order_id,
			sales,
			%s as tier
		`, report.TierCaseSQL("sales"))).
		Order("sales DESC, order_id ASC, product_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("order value tiers: %w", err)
	}
	return results, nil
}

// GetRunningSalesByRegion returns every order line with the prefix sum of
// sales within its region. Rows sharing an order date are ordered by
// (order_id, product_id) so the scan is deterministic.
func (r *GormSalesReportRepository) GetRunningSalesByRegion() ([]report.RunningRegionSales, error) {
	var results []report.RunningRegionSales
	err := r.db.Table("order_lines").
		Select("region, order_date, order_id, product_id, sales").
		Order("region ASC, order_date ASC, order_id ASC, product_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("running sales by region: %w", err)
	}

	var (
		region  string
		running decimal.Decimal
	)
	for i := range results {
		if i == 0 || results[i].Region != region {
			region = results[i].Region
			running = decimal.Zero
		}
		running = running.Add(results[i].Sales)
		results[i].RunningTotal = running
	}
	return results, nil
}

// GetProductProfitRanking ranks products by total profit descending with
// competition ranking: ties share a rank, the next distinct value skips.
func (r *GormSalesReportRepository) GetProductProfitRanking() ([]report.ProductProfitRank, error) {
	var results []report.ProductProfitRank
	err := r.db.Table("order_lines").
		Select(`
			product_name,
			COALESCE(SUM(profit), 0) as total_profit
		`).
		Group("product_name").
		Order("total_profit DESC, product_name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("product profit ranking: %w", err)
	}

	for i := range results {
		if i > 0 && results[i].TotalProfit.Equal(results[i-1].TotalProfit) {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}
	return results, nil
}

// GetHighValueSales returns order lines with sales above threshold, highest
// first.
func (r *GormSalesReportRepository) GetHighValueSales(threshold decimal.Decimal) ([]report.HighValueSale, error) {
	var results []report.HighValueSale
	err := r.db.Table("order_lines").
		Select("order_id, product_id, product_name, sales").
		Where("sales > ?", threshold).
		Order("sales DESC, order_id ASC, product_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("high value sales: %w", err)
	}
	return results, nil
}

// GetDeepDiscounts returns order lines discounted above minDiscount.
func (r *GormSalesReportRepository) GetDeepDiscounts(minDiscount decimal.Decimal) ([]report.DeepDiscountLine, error) {
	var results []report.DeepDiscountLine
	err := r.db.Table("order_lines").
		Select("order_id, product_id, product_name, discount, sales").
		Where("discount > ?", minDiscount).
		Order("discount DESC, order_id ASC, product_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("deep discounts: %w", err)
	}
	return results, nil
}

// GetAvgProfitByTier returns average line profit per value tier, using the
// same ladder as GetOrderValueTiers.
func (r *GormSalesReportRepository) GetAvgProfitByTier() ([]report.TierProfit, error) {
	var results []report.TierProfit
	tier := report.TierCaseSQL("sales")
	err := r.db.Table("order_lines").
		Select(fmt.Sprintf(`
			%s as tier,
			COALESCE(AVG(profit), 0) as avg_profit,
			COUNT(*) as line_count
		`, tier)).
		Group(tier).
		Order(report.TierOrderSQL("tier")).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("avg profit by tier: %w", err)
	}
	return results, nil
}

// GetMonthlySalesGrowth returns month-over-month percent change in total
// sales. The first month has no predecessor and is omitted; a month whose
// predecessor total is zero carries a nil Growth since the division is
// undefined.
func (r *GormSalesReportRepository) GetMonthlySalesGrowth() ([]report.MonthlyGrowth, error) {
	type monthlyTotal struct {
		Year       int
		Month      int
		TotalSales decimal.Decimal
	}

	var totals []monthlyTotal
	err := r.db.Table("order_lines").
		Select(`
			CAST(strftime('%Y', order_date) AS INTEGER) as year,
			CAST(strftime('%m', order_date) AS INTEGER) as month,
			COALESCE(SUM(sales), 0) as total_sales
		`).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("monthly sales growth: %w", err)
	}

	var results []report.MonthlyGrowth
	for i := 1; i < len(totals); i++ {
		row := report.MonthlyGrowth{
			Year:       totals[i].Year,
			Month:      totals[i].Month,
			TotalSales: totals[i].TotalSales,
		}
		prev := totals[i-1].TotalSales
		if !prev.IsZero() {
			growth := totals[i].TotalSales.Sub(prev).Div(prev).Mul(oneHundred).Round(2)
			row.Growth = &growth
		}
		results = append(results, row)
	}
	return results, nil
}

// GetProductPairs counts, over all orders, the unordered pairs of distinct
// product names that co-occur in one order. The a < b join canonicalizes
// each pair so A-B and B-A are never counted separately.
func (r *GormSalesReportRepository) GetProductPairs(topN int) ([]report.ProductPair, error) {
	if topN <= 0 {
		topN = 10
	}

	var results []report.ProductPair
	err := r.db.Raw(`
		SELECT
			a.product_name AS product_a,
			b.product_name AS product_b,
			COUNT(*) AS orders
		FROM (SELECT DISTINCT order_id, product_name FROM order_lines) a
		JOIN (SELECT DISTINCT order_id, product_name FROM order_lines) b
			ON a.order_id = b.order_id AND a.product_name < b.product_name
		GROUP BY a.product_name, b.product_name
		ORDER BY orders DESC, product_a ASC, product_b ASC
		LIMIT ?
	`, topN).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("product pairs: %w", err)
	}
	return results, nil
}

// GetShippingDelayByMode returns the average and count of
// (ship date - order date) in days per ship mode, ascending by average.
// Negative delays pass through; the source data does not guarantee an order
// ships after it is placed.
func (r *GormSalesReportRepository) GetShippingDelayByMode() ([]report.ShipModeDelay, error) {
	var results []report.ShipModeDelay
	err := r.db.Table("order_lines").
		Select(`
			ship_mode,
			COALESCE(AVG(julianday(ship_date) - julianday(order_date)), 0) as avg_days,
			COUNT(*) as line_count
		`).
		Group("ship_mode").
		Order("avg_days ASC, ship_mode ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("shipping delay by mode: %w", err)
	}
	return results, nil
}
