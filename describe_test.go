package dbmcp

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDescribeTable_Sections(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{handler: metadataHandler}
	engine := newTestEngine(t, "desc_sections", d, true)

	out, err := engine.DescribeTable(context.Background(), "users", "")
	if err != nil {
		t.Fatalf("DescribeTable: %v", err)
	}

	for _, section := range []string{"COLUMNS:", "PRIMARY KEYS:", "FOREIGN KEYS:", "INDEXES:", "TABLE INFORMATION:"} {
		if !strings.Contains(out, section) {
			t.Fatalf("missing section %q in:\n%s", section, out)
		}
	}

	// Column lines are padded to a fixed width with attributes after.
	if want := fmt.Sprintf("  %-30s %s", "id", "bigint NOT NULL"); !strings.Contains(out, want) {
		t.Fatalf("missing formatted id column in:\n%s", out)
	}
	if !strings.Contains(out, "varchar(255) NOT NULL") {
		t.Fatalf("missing sized varchar type in:\n%s", out)
	}
	if !strings.Contains(out, "numeric(10,2)") {
		t.Fatalf("missing precision/scale type in:\n%s", out)
	}
	if !strings.Contains(out, "id (constraint: users_pkey)") {
		t.Fatalf("missing primary key line in:\n%s", out)
	}
	if !strings.Contains(out, "No foreign keys defined") {
		t.Fatalf("missing foreign key fallback in:\n%s", out)
	}
	if !strings.Contains(out, "idx_users_name (NON-UNIQUE): name") {
		t.Fatalf("missing index line in:\n%s", out)
	}
	if !strings.Contains(out, "Estimated Row Count: 42") {
		t.Fatalf("missing row count in:\n%s", out)
	}
}

func TestDescribeTable_NotFound(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{handler: metadataHandler}
	engine := newTestEngine(t, "desc_notfound", d, true)

	_, err := engine.DescribeTable(context.Background(), "MISSING", "")
	if err == nil || err.Error() != "Table not found: MISSING" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDescribeTable_EmptyName(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{handler: metadataHandler}
	engine := newTestEngine(t, "desc_empty", d, true)

	if _, err := engine.DescribeTable(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for empty table name")
	}
}

func TestDescribeTable_RetriesWithoutSchema(t *testing.T) {
	t.Parallel()
	var sawEmptySchema bool
	d := &fakeDriver{handler: func(query string, args []driver.Value) ([]string, [][]driver.Value, error) {
		if strings.Contains(query, "information_schema.columns") {
			if schema, _ := args[0].(string); schema == "wrong" {
				return []string{"name", "type", "size", "decimals", "nullable", "default", "remarks"}, nil, nil
			}
			sawEmptySchema = true
		}
		return metadataHandler(query, args)
	}}
	engine := newTestEngine(t, "desc_retry", d, true)

	out, err := engine.DescribeTable(context.Background(), "users", "wrong")
	if err != nil {
		t.Fatalf("DescribeTable: %v", err)
	}
	if !sawEmptySchema {
		t.Fatal("expected a second column lookup without the schema filter")
	}
	if !strings.Contains(out, "COLUMNS:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDescribeTable_RowCountUnavailable(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{handler: func(query string, args []driver.Value) ([]string, [][]driver.Value, error) {
		if strings.Contains(query, "COUNT(*)") {
			return nil, nil, errors.New("permission denied")
		}
		return metadataHandler(query, args)
	}}
	engine := newTestEngine(t, "desc_nocount", d, true)

	out, err := engine.DescribeTable(context.Background(), "users", "")
	if err != nil {
		t.Fatalf("DescribeTable: %v", err)
	}
	if !strings.Contains(out, "Row Count: Not available") {
		t.Fatalf("missing row count fallback in:\n%s", out)
	}
}

func TestFormatDataType(t *testing.T) {
	t.Parallel()
	if got := formatDataType("text", 0, 0); got != "text" {
		t.Fatalf("formatDataType = %q", got)
	}
	if got := formatDataType("varchar", 255, 0); got != "varchar(255)" {
		t.Fatalf("formatDataType = %q", got)
	}
	if got := formatDataType("numeric", 10, 2); got != "numeric(10,2)" {
		t.Fatalf("formatDataType = %q", got)
	}
}
