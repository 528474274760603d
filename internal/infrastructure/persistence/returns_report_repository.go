package persistence

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/analytics/internal/domain/report"
)

// GormReturnsReportRepository implements report.ReturnsReportRepository.
// Every people query joins through the region key, so a manager inherits all
// the order lines of their region; that fan-out is part of the source data
// model and is kept as-is.
type GormReturnsReportRepository struct {
	db *gorm.DB
}

// NewGormReturnsReportRepository creates a new GormReturnsReportRepository.
func NewGormReturnsReportRepository(db *gorm.DB) *GormReturnsReportRepository {
	return &GormReturnsReportRepository{db: db}
}

// GetPeopleByRegion counts managers per region.
func (r *GormReturnsReportRepository) GetPeopleByRegion() ([]report.RegionManagers, error) {
	var results []report.RegionManagers
	err := r.db.Table("people").
		Select("region, COUNT(*) as managers").
		Group("region").
		Order("managers DESC, region ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("people by region: %w", err)
	}
	return results, nil
}

// GetManagerPerformance aggregates order lines per manager via the region
// join. Managers of an empty region report zeroes rather than dropping out.
func (r *GormReturnsReportRepository) GetManagerPerformance() ([]report.ManagerPerformance, error) {
	var results []report.ManagerPerformance
	err := r.db.Table("people p").
		Select(`
			p.person,
			p.region,
			COUNT(o.row_id) as line_count,
			COUNT(DISTINCT o.order_id) as distinct_orders,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit,
			COALESCE(AVG(o.discount), 0) as avg_discount
		`).
		Joins("LEFT JOIN order_lines o ON o.region = p.region").
		Group("p.person, p.region").
		Order("total_sales DESC, p.person ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("manager performance: %w", err)
	}
	return results, nil
}

// GetReturnRate returns the percentage of distinct orders with at least one
// return record, rounded to two decimals. Orphan return records do not
// count; they are surfaced by GetOrphanReturns instead.
func (r *GormReturnsReportRepository) GetReturnRate() (*report.ReturnRate, error) {
	var totalOrders int64
	if err := r.db.Table("order_lines").
		Select("COUNT(DISTINCT order_id)").
		Scan(&totalOrders).Error; err != nil {
		return nil, fmt.Errorf("return rate: %w", err)
	}

	var returnedOrders int64
	if err := r.db.Table("returns r").
		Select("COUNT(DISTINCT r.order_id)").
		Joins("JOIN order_lines o ON o.order_id = r.order_id").
		Scan(&returnedOrders).Error; err != nil {
		return nil, fmt.Errorf("return rate: %w", err)
	}

	rate := decimal.Zero
	if totalOrders > 0 {
		rate = decimal.NewFromInt(returnedOrders).
			Div(decimal.NewFromInt(totalOrders)).
			Mul(oneHundred).
			Round(2)
	}

	return &report.ReturnRate{
		ReturnedOrders: returnedOrders,
		TotalOrders:    totalOrders,
		Rate:           rate,
	}, nil
}

// GetReturnsByRegion counts returned orders per region as recorded on the
// return rows themselves.
func (r *GormReturnsReportRepository) GetReturnsByRegion() ([]report.RegionReturns, error) {
	var results []report.RegionReturns
	err := r.db.Table("returns").
		Select("region, COUNT(DISTINCT order_id) as returned_orders").
		Group("region").
		Order("returned_orders DESC, region ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("returns by region: %w", err)
	}
	return results, nil
}

// GetMonthlyReturnTrend counts returned orders per calendar (year, month) of
// the order date.
func (r *GormReturnsReportRepository) GetMonthlyReturnTrend() ([]report.MonthlyReturns, error) {
	var results []report.MonthlyReturns
	err := r.db.Table("returns r").
		Select(`
			CAST(strftime('%Y', o.order_date) AS INTEGER) as year,
			CAST(strftime('%m', o.order_date) AS INTEGER) as month,
			COUNT(DISTINCT r.order_id) as returned_orders
		`).
		Joins("JOIN order_lines o ON o.order_id = r.order_id").
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("monthly return trend: %w", err)
	}
	return results, nil
}

// GetProfitLostToReturns sums the profit booked on returned order lines per
// region. Returns are deduplicated by order id first so an order listed
// twice in the returns file is not double counted.
func (r *GormReturnsReportRepository) GetProfitLostToReturns() ([]report.RegionReturnLoss, error) {
	var results []report.RegionReturnLoss
	err := r.db.Table("order_lines o").
		Select(`
			o.region,
			COALESCE(SUM(o.profit), 0) as lost_profit
		`).
		Joins("JOIN (SELECT DISTINCT order_id FROM returns) r ON r.order_id = o.order_id").
		Group("o.region").
		Order("lost_profit ASC, o.region ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("profit lost to returns: %w", err)
	}
	return results, nil
}

// GetMostReturnedProducts returns the top N products by returned line count.
func (r *GormReturnsReportRepository) GetMostReturnedProducts(topN int) ([]report.ReturnedProduct, error) {
	if topN <= 0 {
		topN = 10
	}

	var results []report.ReturnedProduct
	err := r.db.Table("order_lines o").
		Select("o.product_name, COUNT(*) as returned_lines").
		Joins("JOIN (SELECT DISTINCT order_id FROM returns) r ON r.order_id = o.order_id").
		Group("o.product_name").
		Order("returned_lines DESC, o.product_name ASC").
		Limit(topN).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("most returned products: %w", err)
	}
	return results, nil
}

// GetShipModeReturnRate ranks ship modes by the share of their distinct
// orders that were returned, highest rate first.
func (r *GormReturnsReportRepository) GetShipModeReturnRate() ([]report.ShipModeReturnRate, error) {
	var results []report.ShipModeReturnRate
	err := r.db.Table("order_lines o").
		Select(`
			o.ship_mode,
			COUNT(DISTINCT o.order_id) as total_orders,
			COUNT(DISTINCT CASE WHEN r.order_id IS NOT NULL THEN o.order_id END) as returned_orders
		`).
		Joins("LEFT JOIN (SELECT DISTINCT order_id FROM returns) r ON r.order_id = o.order_id").
		Group("o.ship_mode").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("ship mode return rate: %w", err)
	}

	for i := range results {
		if results[i].TotalOrders > 0 {
			results[i].Rate = decimal.NewFromInt(results[i].ReturnedOrders).
				Div(decimal.NewFromInt(results[i].TotalOrders)).
				Mul(oneHundred).
				Round(2)
		} else {
			results[i].Rate = decimal.Zero
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Rate.Equal(results[j].Rate) {
			return results[i].Rate.GreaterThan(results[j].Rate)
		}
		return results[i].ShipMode < results[j].ShipMode
	})
	return results, nil
}

// GetOrphanReturns lists return records whose order id matches no order
// line. The load accepts such records; this query is how they surface.
func (r *GormReturnsReportRepository) GetOrphanReturns() ([]report.OrphanReturn, error) {
	var results []report.OrphanReturn
	err := r.db.Table("returns r").
		Select("r.order_id, r.region").
		Joins("LEFT JOIN order_lines o ON o.order_id = r.order_id").
		Where("o.order_id IS NULL").
		Group("r.order_id, r.region").
		Order("r.order_id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("orphan returns: %w", err)
	}
	return results, nil
}
