// Package dialect encodes per-vendor database facts: identifier case
// folding, quoting, probe queries, pagination idioms, diagnostic queries
// for live charset/timezone facts, and the metadata queries used by the
// resource catalog. A Profile is selected once from a normalized type
// tag; nothing in this package touches the database.
package dialect

import (
	"fmt"
	"strings"
)

// Type is a normalized database vendor tag.
type Type string

const (
	TypeH2         Type = "h2"
	TypeMySQL      Type = "mysql"
	TypePostgreSQL Type = "postgresql"
	TypeSQLServer  Type = "sqlserver"
	TypeOracle     Type = "oracle"
	TypeSQLite     Type = "sqlite"
	TypeGeneric    Type = "generic"
)

// Fold describes how a vendor stores unquoted identifiers.
type Fold int

const (
	FoldNone  Fold = iota // identifier preserved as given
	FoldLower             // unquoted identifiers stored lowercase
	FoldUpper             // unquoted identifiers stored uppercase
)

// Profile carries the per-vendor facts consulted by the engine.
type Profile struct {
	Type Type
	Fold Fold

	// ProbeQuery is the trivial aliveness query used when validating a
	// pooled connection.
	ProbeQuery string

	// QuoteRune is the identifier quoting character. MySQL uses a
	// backtick, everything else the SQL standard double quote.
	QuoteRune rune
}

// DetectType normalizes a driver name and connection URL into a vendor
// tag. The driver name wins when recognized; the URL scheme breaks ties
// for drivers registered under generic names.
func DetectType(driver, url string) Type {
	switch strings.ToLower(driver) {
	case "pgx", "postgres", "postgresql":
		return TypePostgreSQL
	case "mysql", "mariadb":
		return TypeMySQL
	case "sqlite", "sqlite3":
		return TypeSQLite
	case "sqlserver", "mssql":
		return TypeSQLServer
	case "oracle", "godror", "oci8":
		return TypeOracle
	case "h2":
		return TypeH2
	}

	lowered := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lowered, "postgres://"), strings.HasPrefix(lowered, "postgresql://"):
		return TypePostgreSQL
	case strings.HasPrefix(lowered, "mysql://"), strings.Contains(lowered, "@tcp("):
		return TypeMySQL
	case strings.HasPrefix(lowered, "sqlserver://"), strings.Contains(lowered, "jdbc:sqlserver"):
		return TypeSQLServer
	case strings.Contains(lowered, "oracle"), strings.Contains(lowered, "thin:@"):
		return TypeOracle
	case strings.Contains(lowered, "h2:"):
		return TypeH2
	case strings.HasSuffix(lowered, ".db"), strings.Contains(lowered, "sqlite"), lowered == ":memory:":
		return TypeSQLite
	}
	return TypeGeneric
}

// ProfileFor returns the Profile for a vendor tag. Unknown tags get the
// generic profile.
func ProfileFor(t Type) *Profile {
	switch t {
	case TypePostgreSQL:
		return &Profile{Type: TypePostgreSQL, Fold: FoldLower, ProbeQuery: "SELECT 1", QuoteRune: '"'}
	case TypeOracle:
		return &Profile{Type: TypeOracle, Fold: FoldUpper, ProbeQuery: "SELECT 1 FROM DUAL", QuoteRune: '"'}
	case TypeMySQL:
		return &Profile{Type: TypeMySQL, Fold: FoldNone, ProbeQuery: "SELECT 1", QuoteRune: '`'}
	case TypeSQLServer:
		return &Profile{Type: TypeSQLServer, Fold: FoldNone, ProbeQuery: "SELECT 1", QuoteRune: '"'}
	case TypeH2:
		return &Profile{Type: TypeH2, Fold: FoldUpper, ProbeQuery: "SELECT 1", QuoteRune: '"'}
	case TypeSQLite:
		return &Profile{Type: TypeSQLite, Fold: FoldNone, ProbeQuery: "SELECT 1", QuoteRune: '"'}
	default:
		return &Profile{Type: TypeGeneric, Fold: FoldNone, ProbeQuery: "SELECT 1", QuoteRune: '"'}
	}
}

// FoldIdentifier applies the vendor's unquoted-identifier case rule so
// callers may pass table and schema names in a natural case.
func (p *Profile) FoldIdentifier(name string) string {
	switch p.Fold {
	case FoldLower:
		return strings.ToLower(name)
	case FoldUpper:
		return strings.ToUpper(name)
	default:
		return name
	}
}

// QuoteIdentifier quotes an identifier with the vendor's quoting
// convention, doubling any embedded quote characters.
func (p *Profile) QuoteIdentifier(name string) string {
	q := string(p.QuoteRune)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// QualifiedName returns a quoted schema.table reference, or just the
// quoted table when schema is empty.
func (p *Profile) QualifiedName(schema, table string) string {
	if schema == "" {
		return p.QuoteIdentifier(table)
	}
	return p.QuoteIdentifier(schema) + "." + p.QuoteIdentifier(table)
}

// Fact is a best-effort dialect fact: either a value or an unavailable
// marker carrying the reason. Failures gathering one fact never block
// the rest of an info document.
type Fact struct {
	Label       string
	Value       string
	Unavailable bool
	Reason      string
}

// AvailableFact returns a Fact carrying a value.
func AvailableFact(label, value string) Fact {
	return Fact{Label: label, Value: value}
}

// UnavailableFact returns a Fact marked unavailable.
func UnavailableFact(label, reason string) Fact {
	return Fact{Label: label, Unavailable: true, Reason: reason}
}

// Render formats the fact as a "- Label: value" line, substituting the
// unavailable placeholder when the underlying diagnostic query failed.
func (f Fact) Render() string {
	if f.Unavailable {
		return fmt.Sprintf("- %s: Unable to retrieve (%s)", f.Label, f.Reason)
	}
	return fmt.Sprintf("- %s: %s", f.Label, f.Value)
}

// Diagnostic is a single-value query used to fetch one live dialect
// fact (charset, collation, timezone). Each diagnostic fails
// individually; the caller converts a failure into an unavailable Fact.
type Diagnostic struct {
	Label string
	Query string
}

// CharsetDiagnostics returns the queries used to fetch live character
// set and collation facts for the vendor. Vendors without queryable
// charset state return nil; their charset story is in CharsetNotes.
func (p *Profile) CharsetDiagnostics() []Diagnostic {
	switch p.Type {
	case TypeMySQL:
		return []Diagnostic{
			{Label: "Default Character Set", Query: "SELECT @@character_set_database"},
			{Label: "Default Collation", Query: "SELECT @@collation_database"},
			{Label: "Server Character Set", Query: "SELECT @@character_set_server"},
		}
	case TypePostgreSQL:
		return []Diagnostic{
			{Label: "Server Encoding", Query: "SHOW server_encoding"},
			{Label: "Client Encoding", Query: "SHOW client_encoding"},
		}
	case TypeOracle:
		return []Diagnostic{
			{Label: "Database Character Set", Query: "SELECT value FROM nls_database_parameters WHERE parameter = 'NLS_CHARACTERSET'"},
			{Label: "National Character Set", Query: "SELECT value FROM nls_database_parameters WHERE parameter = 'NLS_NCHAR_CHARACTERSET'"},
		}
	case TypeSQLServer:
		return []Diagnostic{
			{Label: "Default Collation", Query: "SELECT CONVERT(VARCHAR(128), SERVERPROPERTY('Collation'))"},
		}
	default:
		return nil
	}
}

// CharsetNotes returns static charset guidance lines for the vendor.
func (p *Profile) CharsetNotes() []string {
	switch p.Type {
	case TypeMySQL:
		return []string{"Note: MySQL/MariaDB supports per-column character sets"}
	case TypePostgreSQL:
		return []string{"Note: PostgreSQL uses Unicode (UTF-8) by default"}
	case TypeSQLServer:
		return []string{"Note: SQL Server uses UTF-16 internally for Unicode data"}
	case TypeH2:
		return []string{"Character Set: UTF-8 (default)", "Note: H2 uses UTF-8 encoding by default"}
	case TypeSQLite:
		return []string{"Character Set: UTF-8 (always)", "Note: SQLite stores all text as UTF-8"}
	default:
		return []string{"Character set information not available for this database", "Check database documentation for encoding details"}
	}
}

// TimeDiagnostics returns the queries used to fetch live timezone and
// date-format facts for the vendor.
func (p *Profile) TimeDiagnostics() []Diagnostic {
	switch p.Type {
	case TypeMySQL:
		return []Diagnostic{
			{Label: "Global Timezone", Query: "SELECT @@global.time_zone"},
			{Label: "Session Timezone", Query: "SELECT @@session.time_zone"},
		}
	case TypePostgreSQL:
		return []Diagnostic{
			{Label: "Server Timezone", Query: "SHOW timezone"},
			{Label: "Date Style", Query: "SHOW datestyle"},
		}
	case TypeOracle:
		return []Diagnostic{
			{Label: "Database Timezone", Query: "SELECT DBTIMEZONE FROM DUAL"},
			{Label: "Session Timezone", Query: "SELECT SESSIONTIMEZONE FROM DUAL"},
			{Label: "Date Format", Query: "SELECT value FROM nls_session_parameters WHERE parameter = 'NLS_DATE_FORMAT'"},
		}
	default:
		return nil
	}
}

// TimeNotes returns static date/time guidance lines for the vendor.
func (p *Profile) TimeNotes() []string {
	switch p.Type {
	case TypeMySQL:
		return []string{
			"Date Format: YYYY-MM-DD, DateTime Format: YYYY-MM-DD HH:MM:SS",
			"Note: TIMESTAMP columns are affected by timezone settings",
		}
	case TypePostgreSQL:
		return []string{"Note: Use TIMESTAMPTZ for timezone-aware timestamps"}
	case TypeOracle:
		return []string{"Default Date Format: DD-MON-YY (can be changed with NLS_DATE_FORMAT)"}
	case TypeSQLServer:
		return []string{
			"Server Timezone: Not explicitly stored (uses OS timezone)",
			"Default Date Format: YYYY-MM-DD (ISO format)",
			"DateTime Range: 1753-01-01 to 9999-12-31",
			"Note: Use DATETIMEOFFSET for timezone-aware timestamps",
		}
	case TypeH2:
		return []string{
			"Date Format: YYYY-MM-DD, Timestamp Format: YYYY-MM-DD HH:MM:SS.nnnnnnnnn",
			"Note: H2 follows the SQL standard for date/time handling",
		}
	case TypeSQLite:
		return []string{
			"Timezone: No native timezone support",
			"Date Storage: Text (ISO8601), Real (Julian day), or Integer (Unix time)",
			"Note: Applications must handle timezone conversions",
		}
	default:
		return []string{"Date/time configuration not available for this database"}
	}
}
