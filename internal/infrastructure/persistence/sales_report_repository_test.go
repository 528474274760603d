package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/analytics/internal/domain/report"
	"github.com/retailops/analytics/internal/infrastructure/persistence/models"
)

func TestGetSalesByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	a := newLine("O-1", "P-1")
	a.Category, a.SubCategory, a.Sales = "Furniture", "Chairs", dec("100")
	b := newLine("O-1", "P-2")
	b.Category, b.SubCategory, b.Sales = "Furniture", "Chairs", dec("50")
	c := newLine("O-2", "P-3")
	c.Category, c.SubCategory, c.Sales = "Technology", "Phones", dec("300")
	seedLines(t, db, a, b, c)

	results, err := repo.GetSalesByCategory()
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Technology", results[0].Category)
	assert.True(t, results[0].TotalSales.Equal(dec("300")))
	assert.Equal(t, "Furniture", results[1].Category)
	assert.Equal(t, "Chairs", results[1].SubCategory)
	assert.True(t, results[1].TotalSales.Equal(dec("150")))
}

func TestGetSalesSummaryMatchesCategoryTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	a := newLine("O-1", "P-1")
	a.CustomerName, a.Category, a.Sales = "Alice", "Furniture", dec("120.50")
	b := newLine("O-1", "P-2")
	b.CustomerName, b.Category, b.Sales = "Alice", "Technology", dec("80.25")
	c := newLine("O-2", "P-1")
	c.CustomerName, c.Category, c.Sales = "Bob", "Furniture", dec("200")
	seedLines(t, db, a, b, c)

	summary, err := repo.GetSalesSummary()
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.DistinctCustomers)
	assert.EqualValues(t, 2, summary.DistinctOrders)

	// The per-category breakdown has to re-add to the dataset total.
	categories, err := repo.GetCategoryProfit()
	require.NoError(t, err)
	total := decimal.Zero
	for _, row := range categories {
		total = total.Add(row.TotalSales)
	}
	assert.True(t, total.Equal(summary.TotalSales),
		"category sum %s != summary total %s", total, summary.TotalSales)
}

func TestGetMonthlySales(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	jan := newLine("O-1", "P-1")
	jan.OrderDate, jan.Sales = "2020-01-10", dec("100")
	mar := newLine("O-2", "P-1")
	mar.OrderDate, mar.Sales = "2020-03-05", dec("250")
	seedLines(t, db, jan, mar)

	results, err := repo.GetMonthlySales()
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].MonthNumber)
	assert.Equal(t, "January", results[0].MonthName)
	assert.Equal(t, 3, results[1].MonthNumber)
	assert.Equal(t, "March", results[1].MonthName)
	assert.True(t, results[1].TotalSales.Equal(dec("250")))
}

func TestGetOrderValueTiersBoundaries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	lines := []models.OrderLine{
		newLine("O-1", "P-1"), newLine("O-2", "P-1"),
		newLine("O-3", "P-1"), newLine("O-4", "P-1"),
	}
	lines[0].Sales = dec("1000")
	lines[1].Sales = dec("999.99")
	lines[2].Sales = dec("500")
	lines[3].Sales = dec("499.99")
	seedLines(t, db, lines...)

	results, err := repo.GetOrderValueTiers()
	require.NoError(t, err)
	require.Len(t, results, 4)

	byOrder := make(map[string]report.ValueTier, len(results))
	for _, row := range results {
		byOrder[row.OrderID] = row.Tier
	}
	assert.Equal(t, report.TierHigh, byOrder["O-1"])
	assert.Equal(t, report.TierMedium, byOrder["O-2"])
	assert.Equal(t, report.TierMedium, byOrder["O-3"])
	assert.Equal(t, report.TierLow, byOrder["O-4"])
}

func TestGetRunningSalesByRegionResetsPerRegion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	e1 := newLine("O-1", "P-1")
	e1.Region, e1.OrderDate, e1.Sales = "East", "2020-01-01", dec("10")
	e2 := newLine("O-2", "P-1")
	e2.Region, e2.OrderDate, e2.Sales = "East", "2020-01-02", dec("15")
	w1 := newLine("O-3", "P-1")
	w1.Region, w1.OrderDate, w1.Sales = "West", "2020-01-01", dec("7")
	seedLines(t, db, e1, e2, w1)

	results, err := repo.GetRunningSalesByRegion()
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "East", results[0].Region)
	assert.True(t, results[0].RunningTotal.Equal(dec("10")))
	assert.True(t, results[1].RunningTotal.Equal(dec("25")))

	// The scan starts over in the next region.
	assert.Equal(t, "West", results[2].Region)
	assert.True(t, results[2].RunningTotal.Equal(dec("7")))
}

func TestGetProductProfitRankingCompetitionTies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	a := newLine("O-1", "P-1")
	a.ProductName, a.Profit = "Alpha", dec("500")
	b := newLine("O-2", "P-2")
	b.ProductName, b.Profit = "Beta", dec("500")
	c := newLine("O-3", "P-3")
	c.ProductName, c.Profit = "Gamma", dec("100")
	seedLines(t, db, a, b, c)

	results, err := repo.GetProductProfitRanking()
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Two products tied at the top share rank 1; the next value takes rank 3.
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 1, results[1].Rank)
	assert.Equal(t, 3, results[2].Rank)
	assert.Equal(t, "Gamma", results[2].ProductName)
}

func TestGetHighValueSalesThresholdIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	at := newLine("O-1", "P-1")
	at.Sales = dec("1000")
	above := newLine("O-2", "P-1")
	above.Sales = dec("1000.01")
	seedLines(t, db, at, above)

	results, err := repo.GetHighValueSales(dec("1000"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "O-2", results[0].OrderID)
}

func TestGetAvgProfitByTier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	high := newLine("O-1", "P-1")
	high.Sales, high.Profit = dec("2000"), dec("400")
	low1 := newLine("O-2", "P-1")
	low1.Sales, low1.Profit = dec("100"), dec("10")
	low2 := newLine("O-3", "P-1")
	low2.Sales, low2.Profit = dec("200"), dec("30")
	seedLines(t, db, high, low1, low2)

	results, err := repo.GetAvgProfitByTier()
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, report.TierHigh, results[0].Tier)
	assert.True(t, results[0].AvgProfit.Equal(dec("400")))
	assert.Equal(t, report.TierLow, results[1].Tier)
	assert.True(t, results[1].AvgProfit.Equal(dec("20")))
	assert.EqualValues(t, 2, results[1].LineCount)
}

func TestGetMonthlySalesGrowth(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	jan := newLine("O-1", "P-1")
	jan.OrderDate, jan.Sales = "2020-01-10", dec("100")
	feb := newLine("O-2", "P-1")
	feb.OrderDate, feb.Sales = "2020-02-10", dec("150")
	mar := newLine("O-3", "P-1")
	mar.OrderDate, mar.Sales = "2020-03-10", dec("0")
	apr := newLine("O-4", "P-1")
	apr.OrderDate, apr.Sales = "2020-04-10", dec("50")
	seedLines(t, db, jan, feb, mar, apr)

	results, err := repo.GetMonthlySalesGrowth()
	require.NoError(t, err)
	require.Len(t, results, 3) // the first month has no predecessor

	require.NotNil(t, results[0].Growth)
	assert.True(t, results[0].Growth.Equal(dec("50")), "got %s", results[0].Growth)

	require.NotNil(t, results[1].Growth)
	assert.True(t, results[1].Growth.Equal(dec("-100")))

	// Division by a zero prior month is undefined, not zero.
	assert.Equal(t, 4, results[2].Month)
	assert.Nil(t, results[2].Growth)
}

func TestGetProductPairs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	// One order with products A, B, C and a second order with A, B.
	lines := []models.OrderLine{
		newLine("O-1", "P-1"), newLine("O-1", "P-2"), newLine("O-1", "P-3"),
		newLine("O-2", "P-4"), newLine("O-2", "P-5"),
	}
	names := []string{"A", "B", "C", "A", "B"}
	for i := range lines {
		lines[i].ProductName = names[i]
	}
	seedLines(t, db, lines...)

	results, err := repo.GetProductPairs(10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "A", results[0].ProductA)
	assert.Equal(t, "B", results[0].ProductB)
	assert.EqualValues(t, 2, results[0].Orders)
	assert.Equal(t, "C", results[1].ProductB)
	assert.Equal(t, "B", results[2].ProductA)
	assert.Equal(t, "C", results[2].ProductB)
}

func TestGetProductPairsDeduplicatesWithinOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	// The same product name twice in one order must not inflate the count.
	a := newLine("O-1", "P-1")
	a.ProductName = "A"
	a2 := newLine("O-1", "P-2")
	a2.ProductName = "A"
	b := newLine("O-1", "P-3")
	b.ProductName = "B"
	seedLines(t, db, a, a2, b)

	results, err := repo.GetProductPairs(10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, results[0].Orders)
}

func TestGetShippingDelayByMode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	slow := newLine("O-1", "P-1")
	slow.ShipMode, slow.OrderDate, slow.ShipDate = "Standard Class", "2020-01-01", "2020-01-06"
	fast := newLine("O-2", "P-1")
	fast.ShipMode, fast.OrderDate, fast.ShipDate = "Same Day", "2020-01-01", "2020-01-01"
	// Ship date before order date stays in the average as a negative delay.
	odd := newLine("O-3", "P-1")
	odd.ShipMode, odd.OrderDate, odd.ShipDate = "First Class", "2020-01-10", "2020-01-08"
	seedLines(t, db, slow, fast, odd)

	results, err := repo.GetShippingDelayByMode()
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "First Class", results[0].ShipMode)
	assert.InDelta(t, -2.0, results[0].AvgDays.InexactFloat64(), 0.001)
	assert.Equal(t, "Same Day", results[1].ShipMode)
	assert.InDelta(t, 0.0, results[1].AvgDays.InexactFloat64(), 0.001)
	assert.Equal(t, "Standard Class", results[2].ShipMode)
	assert.InDelta(t, 5.0, results[2].AvgDays.InexactFloat64(), 0.001)
}

func TestSalesQueriesOnEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	results, err := repo.GetSalesByCategory()
	require.NoError(t, err)
	assert.Empty(t, results)

	summary, err := repo.GetSalesSummary()
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.DistinctOrders)
	assert.True(t, summary.TotalSales.IsZero())

	growth, err := repo.GetMonthlySalesGrowth()
	require.NoError(t, err)
	assert.Empty(t, growth)
}
