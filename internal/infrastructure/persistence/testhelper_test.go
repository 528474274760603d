package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/retailops/analytics/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// newLine builds an order line with plausible defaults; tests override the
// fields the query under test cares about.
func newLine(orderID, productID string) models.OrderLine {
	return models.OrderLine{
		OrderID:       orderID,
		OrderDate:     "2020-01-15",
		ShipDate:      "2020-01-18",
		ShipMode:      "Standard Class",
		CustomerName:  "Aaron Hawkins",
		Segment:       "Consumer",
		Country:       "United States",
		City:          "Seattle",
		State:         "Washington",
		Market:        "US",
		Region:        "West",
		ProductID:     productID,
		Category:      "Furniture",
		SubCategory:   "Chairs",
		ProductName:   "Swivel Chair",
		Sales:         decimal.NewFromInt(100),
		Quantity:      1,
		Discount:      decimal.Zero,
		Profit:        decimal.NewFromInt(10),
		ShippingCost:  decimal.NewFromInt(5),
		OrderPriority: "Medium",
	}
}

func seedLines(t *testing.T, db *gorm.DB, lines ...models.OrderLine) {
	t.Helper()
	require.NoError(t, db.Create(&lines).Error)
}

func seedPeople(t *testing.T, db *gorm.DB, people ...models.Person) {
	t.Helper()
	require.NoError(t, db.Create(&people).Error)
}

func seedReturns(t *testing.T, db *gorm.DB, returns ...models.Return) {
	t.Helper()
	require.NoError(t, db.Create(&returns).Error)
}

func ret(orderID, region string) models.Return {
	return models.Return{Returned: "Yes", OrderID: orderID, Region: region}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
