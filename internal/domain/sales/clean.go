package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the only date layout accepted by the cleaner. The pipeline
// never guesses alternate formats; anything else is a load error.
const DateFormat = "2006-01-02"

// currencyStripper removes the currency symbol and thousands separators that
// appear in raw sales and profit values.
var currencyStripper = strings.NewReplacer("$", "", ",", "")

// CleanDate parses a hyphen-separated 4-digit-year date. It is idempotent:
// a value that already matches DateFormat round-trips unchanged.
func CleanDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must match %s: %w", DateFormat, err)
	}
	return t, nil
}

// CleanCurrency strips the currency symbol and thousands separators and
// parses the remainder as a decimal number. Already-clean numeric strings
// pass through unchanged, so re-running the cleaner is a no-op.
func CleanCurrency(raw string) (decimal.Decimal, error) {
	stripped := strings.TrimSpace(currencyStripper.Replace(raw))
	if stripped == "" {
		return decimal.Zero, fmt.Errorf("empty after stripping currency noise")
	}
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number after stripping currency noise: %w", err)
	}
	return d, nil
}

// CleanQuantity parses the quantity column, which the raw feed carries as a
// wide nullable integer, into a plain int64.
func CleanQuantity(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("quantity is empty")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity is not an integer: %w", err)
	}
	return n, nil
}

// CleanDiscount parses the discount fraction. Discounts arrive without
// currency noise but share the strict-parse contract of the other measures.
func CleanDiscount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("discount is empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("discount is not a number: %w", err)
	}
	return d, nil
}
