package dbmcp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DescribeTable renders a structured description of a table: columns,
// primary keys, foreign keys, indexes, and general table information.
// Identifiers are folded with the vendor's unquoted-identifier case
// rule, so callers may pass names in any case. An empty schema matches
// the table in any schema.
func (d *DbMcp) DescribeTable(ctx context.Context, table, schema string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	table = d.profile.FoldIdentifier(strings.TrimSpace(table))
	schema = d.profile.FoldIdentifier(strings.TrimSpace(schema))
	if table == "" {
		return "", fmt.Errorf("table name cannot be empty")
	}

	start := time.Now()
	conn, err := d.gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer d.releaseConn(conn, start)

	columns, err := d.queryMeta(ctx, conn, d.profile.ColumnsQuery(schema, table))
	if err != nil {
		return "", fmt.Errorf("failed to read table metadata: %w", err)
	}
	if len(columns) == 0 && schema != "" {
		// The table may live outside the requested schema.
		columns, err = d.queryMeta(ctx, conn, d.profile.ColumnsQuery("", table))
		if err != nil {
			return "", fmt.Errorf("failed to read table metadata: %w", err)
		}
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("Table not found: %s", table)
	}

	var cols strings.Builder
	for _, row := range columns {
		name := metaString(row[0])
		attrs := []string{formatDataType(metaString(row[1]), metaInt(row[2]), metaInt(row[3]))}
		if metaString(row[4]) == "NO" {
			attrs = append(attrs, "NOT NULL")
		}
		if def := metaString(row[5]); def != "" {
			attrs = append(attrs, "DEFAULT "+def)
		}
		if remarks := metaString(row[6]); remarks != "" {
			attrs = append(attrs, "-- "+remarks)
		}
		fmt.Fprintf(&cols, "  %-30s %s\n", name, strings.Join(attrs, " "))
	}

	out := fmt.Sprintf("COLUMNS:\n%s\nPRIMARY KEYS:\n%s\nFOREIGN KEYS:\n%s\nINDEXES:\n%s\nTABLE INFORMATION:\n%s",
		cols.String(),
		d.primaryKeySection(ctx, conn, schema, table),
		d.foreignKeySection(ctx, conn, schema, table),
		d.indexSection(ctx, conn, schema, table),
		d.tableInfoSection(ctx, conn, schema, table))

	d.logger.Info().
		Str("table", table).
		Str("schema", schema).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("table described")
	return out, nil
}

// primaryKeySection lists primary key columns, one per line.
func (d *DbMcp) primaryKeySection(ctx context.Context, conn *sql.Conn, schema, table string) string {
	rows, err := d.queryMeta(ctx, conn, d.profile.PrimaryKeysQuery(schema, table))
	if err != nil {
		return fmt.Sprintf("  Unable to retrieve (%v)\n", err)
	}
	if len(rows) == 0 {
		return "  No primary keys defined\n"
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s (constraint: %s)\n", metaString(row[1]), metaString(row[0]))
	}
	return b.String()
}

// foreignKeySection lists foreign key references, one per line.
func (d *DbMcp) foreignKeySection(ctx context.Context, conn *sql.Conn, schema, table string) string {
	rows, err := d.queryMeta(ctx, conn, d.profile.ForeignKeysQuery(schema, table))
	if err != nil {
		return fmt.Sprintf("  Unable to retrieve (%v)\n", err)
	}
	if len(rows) == 0 {
		return "  No foreign keys defined\n"
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s -> %s.%s (constraint: %s)\n",
			metaString(row[1]), metaString(row[2]), metaString(row[3]), metaString(row[0]))
	}
	return b.String()
}

// indexSection groups index columns by index name.
func (d *DbMcp) indexSection(ctx context.Context, conn *sql.Conn, schema, table string) string {
	rows, err := d.queryMeta(ctx, conn, d.profile.IndexesQuery(schema, table))
	if err != nil {
		return fmt.Sprintf("  Unable to retrieve (%v)\n", err)
	}
	if len(rows) == 0 {
		return "  No indexes defined\n"
	}

	// Metadata queries return one row per index column, ordered by
	// index name then position.
	type index struct {
		name    string
		unique  bool
		columns []string
	}
	var indexes []*index
	byName := map[string]*index{}
	for _, row := range rows {
		name := metaString(row[0])
		ix, ok := byName[name]
		if !ok {
			ix = &index{name: name, unique: metaInt(row[2]) == 0}
			byName[name] = ix
			indexes = append(indexes, ix)
		}
		ix.columns = append(ix.columns, metaString(row[1]))
	}

	var b strings.Builder
	for _, ix := range indexes {
		kind := "NON-UNIQUE"
		if ix.unique {
			kind = "UNIQUE"
		}
		fmt.Fprintf(&b, "  %s (%s): %s\n", ix.name, kind, strings.Join(ix.columns, ", "))
	}
	return b.String()
}

// tableInfoSection reports the table's type and remarks plus a
// best-effort row count. A failed count never fails the description.
func (d *DbMcp) tableInfoSection(ctx context.Context, conn *sql.Conn, schema, table string) string {
	var b strings.Builder

	rows, err := d.queryMeta(ctx, conn, d.profile.TableInfoQuery(schema, table))
	if err == nil && len(rows) > 0 {
		fmt.Fprintf(&b, "  Type: %s\n", metaString(rows[0][0]))
		if remarks := metaString(rows[0][1]); remarks != "" {
			fmt.Fprintf(&b, "  Remarks: %s\n", remarks)
		}
	}

	count, err := d.queryScalar(ctx, conn,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", d.profile.QualifiedName(schema, table)))
	if err != nil {
		b.WriteString("  Row Count: Not available\n")
	} else {
		fmt.Fprintf(&b, "  Estimated Row Count: %v\n", count)
	}
	return b.String()
}

// formatDataType renders a column's type with its size and precision
// the way database tools conventionally print them.
func formatDataType(typ string, size, decimals int64) string {
	if size <= 0 {
		return typ
	}
	if decimals > 0 {
		return fmt.Sprintf("%s(%d,%d)", typ, size, decimals)
	}
	return fmt.Sprintf("%s(%d)", typ, size)
}
