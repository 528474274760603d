package sales

import "context"

// DatasetRepository persists the three source tables. Each Replace call is
// all-or-nothing: on error the previous table contents survive untouched.
type DatasetRepository interface {
	ReplaceOrderLines(ctx context.Context, lines []OrderLine) error
	ReplacePeople(ctx context.Context, people []Person) error
	ReplaceReturns(ctx context.Context, returns []Return) error

	CountOrderLines(ctx context.Context) (int64, error)
	CountPeople(ctx context.Context) (int64, error)
	CountReturns(ctx context.Context) (int64, error)
}
