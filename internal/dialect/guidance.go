package dialect

// PaginationIdiom returns the vendor's row-limiting idiom as a template
// callers can show to query authors.
func (p *Profile) PaginationIdiom() string {
	switch p.Type {
	case TypeSQLServer:
		return "SELECT ... ORDER BY col OFFSET n ROWS FETCH NEXT m ROWS ONLY"
	case TypeOracle:
		return "SELECT ... FETCH FIRST n ROWS ONLY (12c+) or WHERE ROWNUM <= n"
	case TypeMySQL, TypeSQLite:
		return "SELECT ... LIMIT n OFFSET m"
	default:
		return "SELECT ... LIMIT n OFFSET m (SQL standard: FETCH FIRST n ROWS ONLY)"
	}
}

// SequenceIdiom returns the vendor's auto-increment or sequence idiom.
func (p *Profile) SequenceIdiom() string {
	switch p.Type {
	case TypePostgreSQL:
		return "GENERATED ALWAYS AS IDENTITY or SERIAL; nextval('seq_name') for explicit sequences"
	case TypeMySQL:
		return "AUTO_INCREMENT column attribute; LAST_INSERT_ID() for the generated value"
	case TypeOracle:
		return "CREATE SEQUENCE + seq_name.NEXTVAL, or IDENTITY columns (12c+)"
	case TypeSQLServer:
		return "IDENTITY(1,1) column property; SCOPE_IDENTITY() for the generated value"
	case TypeSQLite:
		return "INTEGER PRIMARY KEY is an alias for rowid; AUTOINCREMENT is rarely needed"
	case TypeH2:
		return "GENERATED ALWAYS AS IDENTITY or AUTO_INCREMENT (compatibility modes)"
	default:
		return "Vendor-specific; consult database documentation"
	}
}

// IdentifierQuotingRule describes the vendor's quoting convention.
func (p *Profile) IdentifierQuotingRule() string {
	switch p.Type {
	case TypeMySQL:
		return "Backtick-quoted (`name`); unquoted identifiers keep their case on most platforms"
	case TypePostgreSQL:
		return "Double-quoted (\"name\"); unquoted identifiers fold to lowercase"
	case TypeOracle:
		return "Double-quoted (\"name\"); unquoted identifiers fold to uppercase"
	case TypeH2:
		return "Double-quoted (\"name\"); unquoted identifiers fold to uppercase"
	case TypeSQLServer:
		return "Bracket-quoted ([name]) or double-quoted; case-insensitive by default collation"
	default:
		return "Double-quoted (\"name\") per the SQL standard"
	}
}

// QueryExamples returns vendor-flavored query patterns for the data
// dictionary document.
func (p *Profile) QueryExamples() string {
	switch p.Type {
	case TypePostgreSQL:
		return `-- Limit results
SELECT * FROM table_name LIMIT 10;
-- Case-insensitive match
SELECT * FROM table_name WHERE col ILIKE '%value%';
-- Current date/time
SELECT now(), current_date;
-- String concatenation
SELECT col1 || ' ' || col2 FROM table_name;
`
	case TypeMySQL:
		return `-- Limit results
SELECT * FROM table_name LIMIT 10;
-- Case-insensitive match (default collations are case-insensitive)
SELECT * FROM table_name WHERE col LIKE '%value%';
-- Current date/time
SELECT NOW(), CURDATE();
-- String concatenation
SELECT CONCAT(col1, ' ', col2) FROM table_name;
`
	case TypeOracle:
		return `-- Limit results (12c+)
SELECT * FROM table_name FETCH FIRST 10 ROWS ONLY;
-- Older versions
SELECT * FROM table_name WHERE ROWNUM <= 10;
-- Current date/time
SELECT SYSDATE, SYSTIMESTAMP FROM DUAL;
-- String concatenation
SELECT col1 || ' ' || col2 FROM table_name;
`
	case TypeSQLServer:
		return `-- Limit results
SELECT TOP 10 * FROM table_name;
-- Paged results
SELECT * FROM table_name ORDER BY id OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY;
-- Current date/time
SELECT GETDATE(), SYSDATETIME();
-- String concatenation
SELECT col1 + ' ' + col2 FROM table_name;
`
	case TypeSQLite:
		return `-- Limit results
SELECT * FROM table_name LIMIT 10;
-- Current date/time
SELECT datetime('now'), date('now');
-- String concatenation
SELECT col1 || ' ' || col2 FROM table_name;
`
	default:
		return `-- Limit results (SQL standard)
SELECT * FROM table_name FETCH FIRST 10 ROWS ONLY;
-- Current date/time
SELECT CURRENT_TIMESTAMP, CURRENT_DATE;
-- String concatenation
SELECT col1 || ' ' || col2 FROM table_name;
`
	}
}

// DataTypeNotes returns vendor data type guidance for the data
// dictionary document.
func (p *Profile) DataTypeNotes() string {
	switch p.Type {
	case TypePostgreSQL:
		return `Text: TEXT, VARCHAR(n) | Numeric: INTEGER, BIGINT, NUMERIC(p,s), DOUBLE PRECISION
Temporal: DATE, TIME, TIMESTAMP, TIMESTAMPTZ | Other: BOOLEAN, UUID, JSONB, ARRAY
`
	case TypeMySQL:
		return `Text: VARCHAR(n), TEXT | Numeric: INT, BIGINT, DECIMAL(p,s), DOUBLE
Temporal: DATE, TIME, DATETIME, TIMESTAMP | Other: TINYINT(1) as boolean, JSON, ENUM
`
	case TypeOracle:
		return `Text: VARCHAR2(n), CLOB | Numeric: NUMBER(p,s), BINARY_DOUBLE
Temporal: DATE (includes time), TIMESTAMP, TIMESTAMP WITH TIME ZONE | Other: RAW, BLOB
`
	case TypeSQLServer:
		return `Text: NVARCHAR(n), VARCHAR(n) | Numeric: INT, BIGINT, DECIMAL(p,s), FLOAT
Temporal: DATE, TIME, DATETIME2, DATETIMEOFFSET | Other: BIT as boolean, UNIQUEIDENTIFIER
`
	case TypeSQLite:
		return `Storage classes: TEXT, INTEGER, REAL, BLOB, NULL
Type affinity is dynamic; declared types are advisory only
`
	case TypeH2:
		return `Text: VARCHAR(n), CLOB | Numeric: INT, BIGINT, DECIMAL(p,s), DOUBLE
Temporal: DATE, TIME, TIMESTAMP | Other: BOOLEAN, UUID, BINARY
`
	default:
		return `Consult database documentation for the supported data types
`
	}
}

// DialectGuidance returns a short free-form SQL dialect summary used in
// the info document.
func (p *Profile) DialectGuidance() string {
	return "- Identifier quoting: " + p.IdentifierQuotingRule() + "\n" +
		"- Pagination: " + p.PaginationIdiom() + "\n" +
		"- Sequences/auto-increment: " + p.SequenceIdiom() + "\n"
}

// VersionQuery returns the vendor statement that reports the server
// version string, or an empty string when no single query serves.
func (p *Profile) VersionQuery() string {
	switch p.Type {
	case TypePostgreSQL, TypeMySQL:
		return "SELECT version()"
	case TypeSQLite:
		return "SELECT sqlite_version()"
	case TypeSQLServer:
		return "SELECT @@VERSION"
	case TypeOracle:
		return "SELECT banner FROM v$version WHERE ROWNUM = 1"
	case TypeH2:
		return "SELECT H2VERSION()"
	default:
		return ""
	}
}

// Capability flags surfaced in the info document. These describe what
// the vendor supports, not what the gateway permits.
func (p *Profile) SupportsTransactions() bool {
	return true
}

func (p *Profile) SupportsStoredProcedures() bool {
	switch p.Type {
	case TypeSQLite:
		return false
	default:
		return true
	}
}

func (p *Profile) SupportsSchemas() bool {
	return p.Type != TypeSQLite
}
