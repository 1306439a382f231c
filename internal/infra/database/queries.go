package database

import (
	"fmt"
	"os"
	"path/filepath"
)

// Query files shipped under ./sql. All take :DATAI/:DATAF binds.
const (
	SQLBenchmark      = "relatorio_corte_benchmark.sql"
	SQLSyntheticDay   = "sintetico_corte_ontem.sql"
	SQLSyntheticMonth = "sintetico_corte_mes.sql"
	SQLAnalyticMonth  = "analitico_corte_mes.sql"
)

// QueryLoader reads SQL statements from a directory.
type QueryLoader struct {
	dir string
}

func NewQueryLoader(dir string) *QueryLoader {
	return &QueryLoader{dir: dir}
}

// Load returns the contents of the named SQL file.
func (l *QueryLoader) Load(filename string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, filename))
	if err != nil {
		return "", fmt.Errorf("sql file %s: %w", filename, err)
	}
	return string(raw), nil
}
