package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValueTier classifies an order by total sales value.
type ValueTier string

const (
	TierHigh   ValueTier = "High"
	TierMedium ValueTier = "Medium"
	TierLow    ValueTier = "Low"
)

// Tier thresholds, inclusive at each boundary. The row-level classifier and
// the bucketed-average query both derive from these values so the ladder
// cannot diverge.
var (
	tierHighMin   = decimal.NewFromInt(1000)
	tierMediumMin = decimal.NewFromInt(500)
)

// TierFor returns the tier of a sales value: >= 1000 High, >= 500 Medium,
// else Low.
func TierFor(sales decimal.Decimal) ValueTier {
	switch {
	case sales.GreaterThanOrEqual(tierHighMin):
		return TierHigh
	case sales.GreaterThanOrEqual(tierMediumMin):
		return TierMedium
	default:
		return TierLow
	}
}

// TierCaseSQL renders the same ladder as TierFor as a SQL CASE expression
// over the given column.
func TierCaseSQL(column string) string {
	return fmt.Sprintf(
		"CASE WHEN %s >= %s THEN '%s' WHEN %s >= %s THEN '%s' ELSE '%s' END",
		column, tierHighMin.String(), TierHigh,
		column, tierMediumMin.String(), TierMedium,
		TierLow,
	)
}

// TierOrderSQL renders an ORDER BY key that sorts tiers High, Medium, Low.
func TierOrderSQL(column string) string {
	return fmt.Sprintf(
		"CASE %s WHEN '%s' THEN 0 WHEN '%s' THEN 1 ELSE 2 END",
		column, TierHigh, TierMedium,
	)
}
