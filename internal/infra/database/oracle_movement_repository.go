package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OracleMovementRepository answers the movement check over the branch
// benchmark query. It fails closed: an empty result set or a missing
// category column yields zero totals, not an error.
type OracleMovementRepository struct {
	sales  *OracleSalesRepository
	logger *logrus.Logger
}

func NewOracleMovementRepository(sales *OracleSalesRepository, logger *logrus.Logger) *OracleMovementRepository {
	return &OracleMovementRepository{sales: sales, logger: logger}
}

// CategoryTotals sums each requested category column of the benchmark
// result over the range. Non-numeric and NULL cells count as zero.
func (r *OracleMovementRepository) CategoryTotals(ctx context.Context, start, end time.Time, categories []string) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal, len(categories))
	for _, cat := range categories {
		totals[cat] = decimal.Zero
	}

	table, err := r.sales.QueryRange(ctx, SQLBenchmark, start, end)
	if err != nil {
		return nil, err
	}
	if table.Empty() {
		return totals, nil
	}

	for _, cat := range categories {
		col := table.ColIndex(cat)
		if col < 0 {
			r.logger.Warnf("Column %s absent from benchmark result; treating as zero.", cat)
			continue
		}
		sum := decimal.Zero
		for row := range table.Rows {
			sum = sum.Add(table.Decimal(row, col))
		}
		totals[cat] = sum
	}
	return totals, nil
}
