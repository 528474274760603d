// Package sales holds the core entities of the retail dataset: order lines,
// region managers and return records, together with the normalization rules
// applied to raw CSV values before they reach the store.
package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one product line within a customer order. The natural key is
// (OrderID, ProductID); the synthetic row id assigned by the store carries no
// meaning and must not be used for joins.
type OrderLine struct {
	OrderID       string
	OrderDate     time.Time
	ShipDate      time.Time
	ShipMode      string
	CustomerName  string
	Segment       string
	Country       string
	City          string
	State         string
	PostalCode    *string
	Market        string
	Region        string
	ProductID     string
	Category      string
	SubCategory   string
	ProductName   string
	Sales         decimal.Decimal
	Quantity      int64
	Discount      decimal.Decimal
	Profit        decimal.Decimal
	ShippingCost  decimal.Decimal
	OrderPriority string
}

// NaturalKey returns the identifying key of the line within the dataset.
func (l *OrderLine) NaturalKey() string {
	return l.OrderID + "/" + l.ProductID
}

// Person maps a region to its manager. The region is the join key used by the
// manager queries; the source does not guarantee it is unique.
type Person struct {
	Person string
	Region string
}

// Return marks an order as returned. OrderID references OrderLine.OrderID at
// the order grain, so one return record covers every line of that order.
type Return struct {
	Returned string
	OrderID  string
	Region   string
}

// Dataset identifiers used in load results and error messages.
const (
	SourceOrderLines = "order_lines"
	SourcePeople     = "people"
	SourceReturns    = "returns"
)

