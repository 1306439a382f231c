package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Combine chooses how per-category movement totals are merged into the
// single "was there movement?" answer. The source variants disagree on
// this rule, so it is configuration rather than a constant.
type Combine string

const (
	// CombineAny reports movement when any category total is positive.
	CombineAny Combine = "any"
	// CombineAll requires every category total to be positive.
	CombineAll Combine = "all"
)

// Valid reports whether c is a known combiner.
func (c Combine) Valid() bool {
	return c == CombineAny || c == CombineAll
}

// MovementOracle answers whether qualifying activity exists in a date
// range. Implementations must fail closed: an empty result set or a
// missing category column counts as zero, never as an error.
type MovementOracle interface {
	// CategoryTotals sums each requested category column over the range.
	// Absent categories map to zero.
	CategoryTotals(ctx context.Context, start, end time.Time, categories []string) (map[string]decimal.Decimal, error)
}

// HasMovement evaluates the configured combiner over category totals.
func HasMovement(ctx context.Context, oracle MovementOracle, start, end time.Time, categories []string, combine Combine) (bool, error) {
	if len(categories) == 0 {
		return false, nil
	}
	totals, err := oracle.CategoryTotals(ctx, start, end, categories)
	if err != nil {
		return false, err
	}
	for _, cat := range categories {
		positive := totals[cat].IsPositive()
		if combine == CombineAll && !positive {
			return false, nil
		}
		if combine != CombineAll && positive {
			return true, nil
		}
	}
	return combine == CombineAll, nil
}
