package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Writer persists one fully materialized warehouse table, replacing any prior
// contents of that table. The pipeline calls WriteTable exactly once per
// logical table per run, possibly concurrently across tables; the
// implementation is responsible for making each table's replacement atomic
// from a reader's perspective. Streaming or partial writes are not part of
// the contract.
type Writer interface {
	WriteTable(t Table) error
}

// RowValues plucks the named columns out of a row. It errors if the row is
// missing any of them, which indicates a table wired up with the wrong row
// type rather than bad input data.
func RowValues(r Row, columns []string) (map[string]interface{}, error) {
	fields := r.Fields()
	vals := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		v, ok := fields[col]
		if !ok {
			return nil, errors.Errorf("row %v has no column %q", fields, col)
		}
		vals[col] = v
	}
	return vals, nil
}

// PartitionPath renders a row's partition values as a Hive-style path
// fragment like "year=2018/month=11". An empty partitionBy yields "".
func PartitionPath(r Row, partitionBy []string) (string, error) {
	if len(partitionBy) == 0 {
		return "", nil
	}
	fields := r.Fields()
	parts := make([]string, len(partitionBy))
	for i, col := range partitionBy {
		v, ok := fields[col]
		if !ok {
			return "", errors.Errorf("row %v has no partition column %q", fields, col)
		}
		parts[i] = fmt.Sprintf("%s=%s", col, partitionValue(v))
	}
	return strings.Join(parts, "/"), nil
}

func partitionValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case time.Time:
		return tv.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", tv)
	}
}
