// Package report defines the read models returned by the analytical query
// catalog and the repository interfaces the catalog runs against.
package report

import (
	"github.com/shopspring/decimal"
)

// CategorySales is total sales grouped by category and sub-category.
type CategorySales struct {
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// SegmentDiscount is the average discount per customer segment.
type SegmentDiscount struct {
	Segment     string          `json:"segment"`
	AvgDiscount decimal.Decimal `json:"avg_discount"`
}

// CategoryProfit is total sales and profit per category.
type CategoryProfit struct {
	Category    string          `json:"category"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// SalesSummary is the single-row dataset overview.
type SalesSummary struct {
	DistinctCustomers int64           `json:"distinct_customers"`
	DistinctOrders    int64           `json:"distinct_orders"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	AvgDiscount       decimal.Decimal `json:"avg_discount"`
}

// MonthlySales is total sales per calendar month across all years, ordered
// by month number rather than alphabetically by name.
type MonthlySales struct {
	MonthNumber int             `json:"month_number"`
	MonthName   string          `json:"month_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// RegionYearProfit is total profit per (year, region).
type RegionYearProfit struct {
	Year        int             `json:"year"`
	Region      string          `json:"region"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// OrderValueTier tags an order row with its value tier. The source dataset
// carries one row per order line, so the classification is applied at that
// grain, keyed by the order id.
type OrderValueTier struct {
	OrderID string          `json:"order_id"`
	Sales   decimal.Decimal `json:"sales"`
	Tier    ValueTier       `json:"tier"`
}

// RunningRegionSales is one order line with the prefix sum of sales within
// its region, ordered by (order_date, order_id, product_id).
type RunningRegionSales struct {
	Region       string          `json:"region"`
	OrderDate    string          `json:"order_date"`
	OrderID      string          `json:"order_id"`
	ProductID    string          `json:"product_id"`
	Sales        decimal.Decimal `json:"sales"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// ProductProfitRank ranks a product by total profit with competition ranking
// semantics: ties share a rank and the next distinct value skips.
type ProductProfitRank struct {
	Rank        int             `json:"rank"`
	ProductName string          `json:"product_name"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// HighValueSale is an order line whose sales exceed the outlier threshold.
type HighValueSale struct {
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Sales       decimal.Decimal `json:"sales"`
}

// DeepDiscountLine is an order line discounted above the outlier fraction.
type DeepDiscountLine struct {
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Discount    decimal.Decimal `json:"discount"`
	Sales       decimal.Decimal `json:"sales"`
}

// TierProfit is average line profit per order value tier.
type TierProfit struct {
	Tier      ValueTier       `json:"tier"`
	AvgProfit decimal.Decimal `json:"avg_profit"`
	LineCount int64           `json:"line_count"`
}

// MonthlyGrowth is month-over-month percent change in total sales. Growth is
// nil for a month whose predecessor total is zero (the division is
// undefined); the very first month carries no row at all.
type MonthlyGrowth struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	TotalSales decimal.Decimal  `json:"total_sales"`
	Growth     *decimal.Decimal `json:"growth,omitempty"`
}

// ProductPair counts orders in which two distinct products co-occur. The
// pair is canonicalized so ProductA < ProductB lexicographically.
type ProductPair struct {
	ProductA string `json:"product_a"`
	ProductB string `json:"product_b"`
	Orders   int64  `json:"orders"`
}

// ShipModeDelay is the average shipping delay in days per ship mode.
// Negative averages are possible; the pipeline does not enforce
// order date <= ship date.
type ShipModeDelay struct {
	ShipMode  string          `json:"ship_mode"`
	AvgDays   decimal.Decimal `json:"avg_days"`
	LineCount int64           `json:"line_count"`
}

// SalesReportRepository is the catalog of analytical queries over the order
// line table. All methods are read-only and deterministic.
type SalesReportRepository interface {
	GetSalesByCategory() ([]CategorySales, error)
	GetAvgDiscountBySegment() ([]SegmentDiscount, error)
	GetCategoryProfit() ([]CategoryProfit, error)
	GetSalesSummary() (*SalesSummary, error)
	GetMonthlySales() ([]MonthlySales, error)
	GetRegionProfitByYear() ([]RegionYearProfit, error)
	GetOrderValueTiers() ([]OrderValueTier, error)
	GetRunningSalesByRegion() ([]RunningRegionSales, error)
	GetProductProfitRanking() ([]ProductProfitRank, error)
	GetHighValueSales(threshold decimal.Decimal) ([]HighValueSale, error)
	GetDeepDiscounts(minDiscount decimal.Decimal) ([]DeepDiscountLine, error)
	GetAvgProfitByTier() ([]TierProfit, error)
	GetMonthlySalesGrowth() ([]MonthlyGrowth, error)
	GetProductPairs(topN int) ([]ProductPair, error)
	GetShippingDelayByMode() ([]ShipModeDelay, error)
}
