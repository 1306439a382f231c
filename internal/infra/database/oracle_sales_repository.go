package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is a generic query result: uppercase column names plus raw
// cell values as the driver returned them.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColIndex finds a column by case-insensitive name, -1 when absent.
func (t *Table) ColIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// String renders one cell for display/CSV. NULL renders empty.
func (t *Table) String(row, col int) string {
	if col < 0 || col >= len(t.Columns) {
		return ""
	}
	v := t.Rows[row][col]
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

// Decimal coerces one cell to a decimal, treating NULL, absent and
// non-numeric values as zero.
func (t *Table) Decimal(row, col int) decimal.Decimal {
	if col < 0 || col >= len(t.Columns) {
		return decimal.Zero
	}
	return AsDecimal(t.Rows[row][col])
}

// AsDecimal coerces a raw driver value to a decimal, zero on anything
// unparseable. The daily gate sums these totals and must fail closed.
func AsDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(x)
	case int64:
		return decimal.NewFromInt(x)
	case []byte:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	default:
		return parseDecimal(fmt.Sprint(x))
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// OracleSalesRepository runs the parameterized report queries against
// the sales database.
type OracleSalesRepository struct {
	db     *sql.DB
	loader *QueryLoader
}

func NewOracleSalesRepository(db *sql.DB, loader *QueryLoader) *OracleSalesRepository {
	return &OracleSalesRepository{db: db, loader: loader}
}

// QueryRange executes the named SQL file with :DATAI/:DATAF bound to
// the period and returns the full result as a Table.
func (r *OracleSalesRepository) QueryRange(ctx context.Context, filename string, start, end time.Time) (*Table, error) {
	query, err := r.loader.Load(filename)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query,
		sql.Named("DATAI", start),
		sql.Named("DATAF", end),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing %s: %w", filename, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns of %s: %w", filename, err)
	}

	table := &Table{Columns: make([]string, len(cols))}
	for i, c := range cols {
		table.Columns[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning row of %s: %w", filename, err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", filename, err)
	}
	return table, nil
}
