package dbmcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// keywords whose statements produce a result set when executed. Leading
// keyword dispatch covers every vendor the engine targets; anything
// else goes through Exec and reports affected rows.
var rowReturningKeywords = map[string]bool{
	"select":   true,
	"with":     true,
	"show":     true,
	"explain":  true,
	"describe": true,
	"desc":     true,
	"pragma":   true,
	"values":   true,
	"table":    true,
}

// ExecuteSql runs a single SQL statement with positional parameters and
// returns the materialized result. In select-only mode the statement
// must pass full safety validation; otherwise only the comment check
// applies. maxRows caps the number of rows read from a result set; zero
// or negative means no cap.
func (d *DbMcp) ExecuteSql(ctx context.Context, sqlText string, maxRows int, params []any) (*QueryResult, error) {
	if d.config.Query.SelectOnly {
		if err := d.guard.Validate(sqlText); err != nil {
			d.logger.Warn().
				Str("sql", truncateForLog(sqlText)).
				Err(err).
				Msg("query rejected by safety validation")
			return nil, err
		}
	} else if err := d.guard.CheckComments(sqlText); err != nil {
		d.logger.Warn().
			Str("sql", truncateForLog(sqlText)).
			Err(err).
			Msg("query rejected by safety validation")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := d.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer d.releaseConn(conn, start)

	stmt, err := conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = bindValue(p)
	}

	var result *QueryResult
	if returnsRows(sqlText) {
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("query execution failed: %w", err)
		}
		result, err = collectRows(rows, maxRows)
		if err != nil {
			return nil, err
		}
	} else {
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("statement execution failed: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			affected = -1
		}
		// The row count reports the update count, not the single
		// synthetic row.
		result = &QueryResult{
			Columns:  []string{"affected_rows"},
			Rows:     [][]any{{affected}},
			RowCount: int(affected),
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	d.logger.Info().
		Str("sql", truncateForLog(sqlText)).
		Int("row_count", result.RowCount).
		Int64("duration_ms", result.DurationMs).
		Msg("query executed")
	return result, nil
}

// returnsRows reports whether the statement's leading keyword produces
// a result set.
func returnsRows(sqlText string) bool {
	fields := strings.Fields(strings.ToLower(sqlText))
	if len(fields) == 0 {
		return false
	}
	return rowReturningKeywords[fields[0]]
}

// collectRows drains a result set into a QueryResult, converting each
// cell to a transport-friendly value. maxRows > 0 stops reading once
// the cap is reached; the rows handle is always closed.
func collectRows(rows *sql.Rows, maxRows int) (*QueryResult, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result set columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    [][]any{},
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if maxRows > 0 && result.RowCount >= maxRows {
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("Result set reading failed at row %d: %v", result.RowCount, err)
		}
		row := make([]any, len(columns))
		for i, v := range values {
			row[i] = cellValue(v)
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Result set reading failed at row %d: %v", result.RowCount, err)
	}
	return result, nil
}

// cellValue converts a scanned database value to a vendor-neutral form.
// Driver-returned byte slices become strings so results serialize to
// readable JSON rather than base64.
func cellValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// bindValue normalizes a caller-supplied parameter into a value every
// supported driver accepts. Unrecognized types fall back to their
// string rendering rather than failing the bind.
func bindValue(p any) any {
	switch x := p.(type) {
	case nil:
		return nil
	case bool, string, int64, float64, []byte, time.Time:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return fmt.Sprintf("%d", x)
		}
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return fmt.Sprintf("%d", x)
		}
		return int64(x)
	case float32:
		return float64(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// truncateForLog shortens SQL text for log fields.
func truncateForLog(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
