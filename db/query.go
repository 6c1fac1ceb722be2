// query.go reads liturgy tables from the warehouse.
//
// All functions accept a context and return structured results that the
// dataset layer can convert. Errors are returned, never logged or printed.
package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
)

// TableInfo represents a table visible to the warehouse user.
type TableInfo struct {
	Schema   string
	Name     string
	RowCount int64 // estimated row count (from pg_class.reltuples)
}

// QueryResult holds the output of a query with every value rendered as text.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Status   string
}

// ListTables lists base tables in schema with estimated row counts.
func (d *DB) ListTables(ctx context.Context, schema string) ([]TableInfo, error) {
	if schema == "" {
		schema = "public"
	}
	query := `
		SELECT t.table_schema, t.table_name,
		       GREATEST(COALESCE(c.reltuples, 0), 0)::bigint
		FROM information_schema.tables t
		LEFT JOIN pg_class c
		  ON c.relname = t.table_name
		  AND c.relnamespace = (SELECT oid FROM pg_namespace WHERE nspname = t.table_schema)
		WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name`
	rows, err := d.Pool.Query(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Schema, &t.Name, &t.RowCount); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// SelectAll runs SELECT * FROM table, with LIMIT when limit > 0.
// table may be schema-qualified ("liturgi.pdf_liturgi_ai_analysis").
func (d *DB) SelectAll(ctx context.Context, table string, limit int) (*QueryResult, error) {
	sql, err := SelectAllSQL(table, limit)
	if err != nil {
		return nil, err
	}
	return d.executeQuery(ctx, sql)
}

// SelectAllSQL builds the quoted SELECT * statement used by SelectAll.
func SelectAllSQL(table string, limit int) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("empty table name")
	}
	parts := strings.Split(table, ".")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", fmt.Errorf("invalid table name %q", table)
		}
	}
	sql := "SELECT * FROM " + pgx.Identifier(parts).Sanitize()
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return sql, nil
}

// executeQuery is the internal workhorse for running SQL and collecting results.
func (d *DB) executeQuery(ctx context.Context, sql string, args ...any) (*QueryResult, error) {
	rows, err := d.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &QueryResult{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.Status = fmt.Sprintf("(%d row%s)", result.RowCount, plural(result.RowCount))
	return result, nil
}

// FormatValue renders a driver value the way it would appear in a CSV
// export: NULL is empty, dates without a time part are YYYY-MM-DD.
// pgtype wrappers such as Numeric go through their driver.Valuer and
// uuid columns (decoded by pgx as [16]byte) use the canonical form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case [16]byte:
		return uuid.UUID(x).String()
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		if _, again := dv.(driver.Valuer); again {
			return fmt.Sprintf("%v", dv)
		}
		return FormatValue(dv)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatRowCount formats a row count for compact display:
//   - under 1000: exact number (e.g. "42", "999")
//   - 1000..999499: Xk (e.g. "1k", "999k")
//   - 999500+: XM (e.g. "1M", "10M")
func FormatRowCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 999500 {
		return fmt.Sprintf("%dk", (n+500)/1000)
	}
	return fmt.Sprintf("%dM", (n+500000)/1000000)
}

// FormatTimeAgo formats a duration since a timestamp as a compact string:
//
//	<60s  → "Xs"   (e.g. "5s")
//	<60m  → "Xm"   (e.g. "30m")
//	<24h  → "Xh"   (e.g. "2h")
//	>=24h → "Xd"   (e.g. "3d")
func FormatTimeAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	d := time.Since(*t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
