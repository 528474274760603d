package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/analytics/internal/domain/sales"
)

// DateLayout is the storage form of date columns. Dates are kept as ISO text
// so SQLite date functions (strftime, julianday) operate on them directly.
const DateLayout = "2006-01-02"

// OrderLine is one product line within an order. RowID exists only for
// storage; joins and identity go through (OrderID, ProductID).
type OrderLine struct {
	RowID         int64           `gorm:"column:row_id;primaryKey;autoIncrement"`
	OrderID       string          `gorm:"column:order_id;size:32;not null;uniqueIndex:ux_order_lines_key,priority:1;index:ix_order_lines_order"`
	OrderDate     string          `gorm:"column:order_date;type:text;not null;index:ix_order_lines_date"`
	ShipDate      string          `gorm:"column:ship_date;type:text;not null"`
	ShipMode      string          `gorm:"column:ship_mode;size:32;not null"`
	CustomerName  string          `gorm:"column:customer_name;size:128;not null"`
	Segment       string          `gorm:"column:segment;size:32;not null"`
	Country       string          `gorm:"column:country;size:64"`
	City          string          `gorm:"column:city;size:64"`
	State         string          `gorm:"column:state;size:64"`
	PostalCode    *string         `gorm:"column:postal_code;size:16"`
	Market        string          `gorm:"column:market;size:32"`
	Region        string          `gorm:"column:region;size:32;not null;index:ix_order_lines_region"`
	ProductID     string          `gorm:"column:product_id;size:32;not null;uniqueIndex:ux_order_lines_key,priority:2"`
	Category      string          `gorm:"column:category;size:64;not null"`
	SubCategory   string          `gorm:"column:sub_category;size:64;not null"`
	ProductName   string          `gorm:"column:product_name;size:255;not null"`
	Sales         decimal.Decimal `gorm:"column:sales;type:decimal(20,4);not null"`
	Quantity      int64           `gorm:"column:quantity;not null"`
	Discount      decimal.Decimal `gorm:"column:discount;type:decimal(10,4);not null"`
	Profit        decimal.Decimal `gorm:"column:profit;type:decimal(20,4);not null"`
	ShippingCost  decimal.Decimal `gorm:"column:shipping_cost;type:decimal(20,4);not null"`
	OrderPriority string          `gorm:"column:order_priority;size:16"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// Person is one region manager row.
type Person struct {
	RowID  int64  `gorm:"column:row_id;primaryKey;autoIncrement"`
	Person string `gorm:"column:person;size:128;not null"`
	Region string `gorm:"column:region;size:32;not null;index:ix_people_region"`
}

func (Person) TableName() string {
	return "people"
}

// Return is one returned-order marker row.
type Return struct {
	RowID    int64  `gorm:"column:row_id;primaryKey;autoIncrement"`
	Returned string `gorm:"column:returned;size:8;not null"`
	OrderID  string `gorm:"column:order_id;size:32;not null;index:ix_returns_order"`
	Region   string `gorm:"column:region;size:32"`
}

func (Return) TableName() string {
	return "returns"
}

// OrderLineFromDomain converts a cleaned domain order line to its storage
// form.
func OrderLineFromDomain(l *sales.OrderLine) OrderLine {
	return OrderLine{
		OrderID:       l.OrderID,
		OrderDate:     l.OrderDate.Format(DateLayout),
		ShipDate:      l.ShipDate.Format(DateLayout),
		ShipMode:      l.ShipMode,
		CustomerName:  l.CustomerName,
		Segment:       l.Segment,
		Country:       l.Country,
		City:          l.City,
		State:         l.State,
		PostalCode:    l.PostalCode,
		Market:        l.Market,
		Region:        l.Region,
		ProductID:     l.ProductID,
		Category:      l.Category,
		SubCategory:   l.SubCategory,
		ProductName:   l.ProductName,
		Sales:         l.Sales,
		Quantity:      l.Quantity,
		Discount:      l.Discount,
		Profit:        l.Profit,
		ShippingCost:  l.ShippingCost,
		OrderPriority: l.OrderPriority,
	}
}

// ToDomain converts a stored order line back to the domain form.
func (m *OrderLine) ToDomain() (*sales.OrderLine, error) {
	orderDate, err := time.Parse(DateLayout, m.OrderDate)
	if err != nil {
		return nil, err
	}
	shipDate, err := time.Parse(DateLayout, m.ShipDate)
	if err != nil {
		return nil, err
	}
	return &sales.OrderLine{
		OrderID:       m.OrderID,
		OrderDate:     orderDate,
		ShipDate:      shipDate,
		ShipMode:      m.ShipMode,
		CustomerName:  m.CustomerName,
		Segment:       m.Segment,
		Country:       m.Country,
		City:          m.City,
		State:         m.State,
		PostalCode:    m.PostalCode,
		Market:        m.Market,
		Region:        m.Region,
		ProductID:     m.ProductID,
		Category:      m.Category,
		SubCategory:   m.SubCategory,
		ProductName:   m.ProductName,
		Sales:         m.Sales,
		Quantity:      m.Quantity,
		Discount:      m.Discount,
		Profit:        m.Profit,
		ShippingCost:  m.ShippingCost,
		OrderPriority: m.OrderPriority,
	}, nil
}

// PersonFromDomain converts a domain person to its storage form.
func PersonFromDomain(p *sales.Person) Person {
	return Person{Person: p.Person, Region: p.Region}
}

// ReturnFromDomain converts a domain return to its storage form.
func ReturnFromDomain(r *sales.Return) Return {
	return Return{Returned: r.Returned, OrderID: r.OrderID, Region: r.Region}
}

// All lists every model for schema migration.
func All() []any {
	return []any{&OrderLine{}, &Person{}, &Return{}}
}
