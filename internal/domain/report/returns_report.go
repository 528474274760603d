package report

import (
	"github.com/shopspring/decimal"
)

// RegionManagers counts region managers per region.
type RegionManagers struct {
	Region   string `json:"region"`
	Managers int64  `json:"managers"`
}

// ManagerPerformance aggregates every order line in a manager's region. A
// manager inherits orders through the region key, not a direct assignment,
// so a region with several managers duplicates its lines across them. That
// fan-out is inherited from the source data model and preserved here.
type ManagerPerformance struct {
	Person         string          `json:"person"`
	Region         string          `json:"region"`
	LineCount      int64           `json:"line_count"`
	DistinctOrders int64           `json:"distinct_orders"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	AvgDiscount    decimal.Decimal `json:"avg_discount"`
}

// ReturnRate is the proportion of distinct orders with at least one return
// record, as a percentage rounded to two decimals.
type ReturnRate struct {
	ReturnedOrders int64           `json:"returned_orders"`
	TotalOrders    int64           `json:"total_orders"`
	Rate           decimal.Decimal `json:"rate"`
}

// RegionReturns counts returned orders per region.
type RegionReturns struct {
	Region         string `json:"region"`
	ReturnedOrders int64  `json:"returned_orders"`
}

// MonthlyReturns counts returned orders per calendar (year, month).
type MonthlyReturns struct {
	Year           int   `json:"year"`
	Month          int   `json:"month"`
	ReturnedOrders int64 `json:"returned_orders"`
}

// RegionReturnLoss is the profit booked on returned order lines per region.
type RegionReturnLoss struct {
	Region     string          `json:"region"`
	LostProfit decimal.Decimal `json:"lost_profit"`
}

// ReturnedProduct counts returned order lines per product.
type ReturnedProduct struct {
	ProductName   string `json:"product_name"`
	ReturnedLines int64  `json:"returned_lines"`
}

// ShipModeReturnRate is the return rate per ship mode, ranked descending.
type ShipModeReturnRate struct {
	ShipMode       string          `json:"ship_mode"`
	TotalOrders    int64           `json:"total_orders"`
	ReturnedOrders int64           `json:"returned_orders"`
	Rate           decimal.Decimal `json:"rate"`
}

// OrphanReturn is a return record whose order id matches no order line.
// Orphans are accepted at load time and surfaced here instead of being
// rejected.
type OrphanReturn struct {
	OrderID string `json:"order_id"`
	Region  string `json:"region"`
}

// ReturnsReportRepository covers the queries that join order lines with the
// people and returns tables.
type ReturnsReportRepository interface {
	GetPeopleByRegion() ([]RegionManagers, error)
	GetManagerPerformance() ([]ManagerPerformance, error)
	GetReturnRate() (*ReturnRate, error)
	GetReturnsByRegion() ([]RegionReturns, error)
	GetMonthlyReturnTrend() ([]MonthlyReturns, error)
	GetProfitLostToReturns() ([]RegionReturnLoss, error)
	GetMostReturnedProducts(topN int) ([]ReturnedProduct, error)
	GetShipModeReturnRate() ([]ShipModeReturnRate, error)
	GetOrphanReturns() ([]OrphanReturn, error)
}
