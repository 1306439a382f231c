package database

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAsDecimalCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"float", float64(1234.56), "1234.56"},
		{"int", int64(42), "42"},
		{"string", "987.65", "987.65"},
		{"padded string", "  10.5 ", "10.5"},
		{"bytes", []byte("3.14"), "3.14"},
		{"garbage", "R$ abc", "0"},
		{"empty string", "", "0"},
	}
	for _, tc := range cases {
		want, _ := decimal.NewFromString(tc.want)
		if got := AsDecimal(tc.in); !got.Equal(want) {
			t.Fatalf("%s: AsDecimal(%v) = %s, want %s", tc.name, tc.in, got, want)
		}
	}
}

func TestTableColIndexAndAccessors(t *testing.T) {
	table := &Table{
		Columns: []string{"CODFILIAL", "FATURAMENTO"},
		Rows: [][]any{
			{"1", "1500.00"},
			{"2", nil},
		},
	}

	if got := table.ColIndex("faturamento"); got != 1 {
		t.Fatalf("ColIndex must match case-insensitively, got %d", got)
	}
	if got := table.ColIndex("QT_CORTE"); got != -1 {
		t.Fatalf("missing column must return -1, got %d", got)
	}

	if got := table.Decimal(0, 1); !got.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected decimal %s", got)
	}
	if got := table.Decimal(1, 1); !got.IsZero() {
		t.Fatalf("NULL cell must coerce to zero, got %s", got)
	}
	if got := table.Decimal(0, -1); !got.IsZero() {
		t.Fatalf("missing column must coerce to zero, got %s", got)
	}
	if got := table.String(1, 1); got != "" {
		t.Fatalf("NULL cell must render empty, got %q", got)
	}

	if (&Table{}).Empty() != true || table.Empty() {
		t.Fatal("Empty must reflect row count")
	}
}
