package dbmcp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openmcp/db-mcp/internal/dialect"
)

// infoDocument renders the database://info resource: server and driver
// identity, connection details with credentials masked, capability
// flags, and live dialect facts. Dialect facts are best-effort; a
// failed diagnostic query becomes an "Unable to retrieve" line rather
// than failing the document.
func (d *DbMcp) infoDocument(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := d.gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer d.releaseConn(conn, start)

	var b strings.Builder
	b.WriteString("=== Database Information ===\n\n")
	fmt.Fprintf(&b, "- Database Type: %s\n", d.profile.Type)
	b.WriteString(d.versionFact(ctx, conn).Render() + "\n")
	fmt.Fprintf(&b, "- Driver: %s\n", d.config.Connection.Driver)
	fmt.Fprintf(&b, "- Connection URL: %s\n", maskDSN(d.config.Connection.URL))
	if user := d.config.Connection.User; user != "" {
		fmt.Fprintf(&b, "- Username: %s\n", user)
	}
	fmt.Fprintf(&b, "- Select-Only Mode: %t\n", d.config.Query.SelectOnly)

	b.WriteString("\n=== Supported Features ===\n\n")
	fmt.Fprintf(&b, "- Transactions: %t\n", d.profile.SupportsTransactions())
	fmt.Fprintf(&b, "- Stored Procedures: %t\n", d.profile.SupportsStoredProcedures())
	fmt.Fprintf(&b, "- Schemas: %t\n", d.profile.SupportsSchemas())

	b.WriteString("\n=== Character Set ===\n\n")
	for _, fact := range d.diagnosticFacts(ctx, conn, d.profile.CharsetDiagnostics()) {
		b.WriteString(fact.Render() + "\n")
	}
	for _, note := range d.profile.CharsetNotes() {
		fmt.Fprintf(&b, "- %s\n", note)
	}

	b.WriteString("\n=== Date and Time Handling ===\n\n")
	for _, fact := range d.diagnosticFacts(ctx, conn, d.profile.TimeDiagnostics()) {
		b.WriteString(fact.Render() + "\n")
	}
	for _, note := range d.profile.TimeNotes() {
		fmt.Fprintf(&b, "- %s\n", note)
	}

	b.WriteString("\n=== SQL Dialect Guidelines ===\n\n")
	b.WriteString(d.profile.DialectGuidance())

	return b.String(), nil
}

// versionFact fetches the server version string, degrading to an
// unavailable marker when the vendor query fails or does not exist.
func (d *DbMcp) versionFact(ctx context.Context, conn *sql.Conn) dialect.Fact {
	query := d.profile.VersionQuery()
	if query == "" {
		return dialect.UnavailableFact("Version", "no version query for this database type")
	}
	version, err := d.queryScalar(ctx, conn, query)
	if err != nil {
		return dialect.UnavailableFact("Version", err.Error())
	}
	return dialect.AvailableFact("Version", strings.TrimSpace(version))
}

// diagnosticFacts runs each diagnostic query individually; one failure
// never blocks the remaining facts.
func (d *DbMcp) diagnosticFacts(ctx context.Context, conn *sql.Conn, diags []dialect.Diagnostic) []dialect.Fact {
	facts := make([]dialect.Fact, 0, len(diags))
	for _, diag := range diags {
		value, err := d.queryScalar(ctx, conn, diag.Query)
		if err != nil {
			facts = append(facts, dialect.UnavailableFact(diag.Label, err.Error()))
			continue
		}
		facts = append(facts, dialect.AvailableFact(diag.Label, value))
	}
	return facts
}

// dataDictionary renders the database://data-dictionary resource: every
// table and view grouped by schema, followed by vendor query patterns
// and data type notes.
func (d *DbMcp) dataDictionary(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.config.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := d.gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer d.releaseConn(conn, start)

	tables, err := d.queryMeta(ctx, conn, d.profile.TablesQuery())
	if err != nil {
		return "", fmt.Errorf("failed to enumerate tables: %w", err)
	}

	var b strings.Builder
	b.WriteString("=== Data Dictionary ===\n\n")
	b.WriteString("SCHEMA OVERVIEW:\n")
	if len(tables) == 0 {
		b.WriteString("  (no tables)\n")
	}
	lastSchema := "\x00"
	for _, row := range tables {
		schema := metaString(row[0])
		if schema != lastSchema {
			if schema == "" {
				b.WriteString("\n(default)\n")
			} else {
				fmt.Fprintf(&b, "\n%s\n", schema)
			}
			lastSchema = schema
		}
		fmt.Fprintf(&b, "  %-30s %s", metaString(row[1]), metaString(row[2]))
		if remarks := metaString(row[3]); remarks != "" {
			b.WriteString("  -- " + remarks)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nCOMMON QUERY PATTERNS:\n")
	b.WriteString(d.profile.QueryExamples())
	b.WriteString("\nDATA TYPES:\n")
	b.WriteString(d.profile.DataTypeNotes())

	return b.String(), nil
}
