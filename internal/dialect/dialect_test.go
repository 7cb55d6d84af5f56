package dialect

import (
	"strings"
	"testing"
)

// --- Type Detection ---

func TestDetectType_DriverNameWins(t *testing.T) {
	t.Parallel()
	cases := map[string]Type{
		"pgx":       TypePostgreSQL,
		"postgres":  TypePostgreSQL,
		"mysql":     TypeMySQL,
		"mariadb":   TypeMySQL,
		"sqlite":    TypeSQLite,
		"sqlite3":   TypeSQLite,
		"sqlserver": TypeSQLServer,
		"mssql":     TypeSQLServer,
		"oracle":    TypeOracle,
		"godror":    TypeOracle,
		"h2":        TypeH2,
	}
	for driver, want := range cases {
		if got := DetectType(driver, ""); got != want {
			t.Errorf("DetectType(%q, \"\") = %v, want %v", driver, got, want)
		}
	}
}

func TestDetectType_DriverNameCaseInsensitive(t *testing.T) {
	t.Parallel()
	if got := DetectType("PGX", ""); got != TypePostgreSQL {
		t.Fatalf("DetectType(PGX) = %v, want postgresql", got)
	}
}

func TestDetectType_URLFallback(t *testing.T) {
	t.Parallel()
	cases := map[string]Type{
		"postgres://app@localhost/app":    TypePostgreSQL,
		"postgresql://app@localhost/app":  TypePostgreSQL,
		"mysql://root@localhost/app":      TypeMySQL,
		"root:pw@tcp(localhost:3306)/app": TypeMySQL,
		"sqlserver://sa@localhost":        TypeSQLServer,
		"file:data/app.db":                TypeSQLite,
		":memory:":                        TypeSQLite,
	}
	for url, want := range cases {
		if got := DetectType("custom", url); got != want {
			t.Errorf("DetectType(custom, %q) = %v, want %v", url, got, want)
		}
	}
}

func TestDetectType_Unknown(t *testing.T) {
	t.Parallel()
	if got := DetectType("somedriver", "odbc:whatever"); got != TypeGeneric {
		t.Fatalf("DetectType = %v, want generic", got)
	}
}

// --- Identifier Folding ---

func TestFoldIdentifier(t *testing.T) {
	t.Parallel()
	cases := []struct {
		typ  Type
		in   string
		want string
	}{
		{TypePostgreSQL, "Users", "users"},
		{TypeOracle, "users", "USERS"},
		{TypeH2, "users", "USERS"},
		{TypeMySQL, "Users", "Users"},
		{TypeSQLite, "Users", "Users"},
		{TypeSQLServer, "Users", "Users"},
		{TypeGeneric, "Users", "Users"},
	}
	for _, c := range cases {
		if got := ProfileFor(c.typ).FoldIdentifier(c.in); got != c.want {
			t.Errorf("%v: FoldIdentifier(%q) = %q, want %q", c.typ, c.in, got, c.want)
		}
	}
}

// --- Identifier Quoting ---

func TestQuoteIdentifier(t *testing.T) {
	t.Parallel()
	if got := ProfileFor(TypePostgreSQL).QuoteIdentifier("users"); got != `"users"` {
		t.Fatalf("QuoteIdentifier = %q", got)
	}
	if got := ProfileFor(TypeMySQL).QuoteIdentifier("users"); got != "`users`" {
		t.Fatalf("QuoteIdentifier = %q", got)
	}
}

func TestQuoteIdentifier_DoublesEmbeddedQuotes(t *testing.T) {
	t.Parallel()
	if got := ProfileFor(TypePostgreSQL).QuoteIdentifier(`we"ird`); got != `"we""ird"` {
		t.Fatalf("QuoteIdentifier = %q", got)
	}
	if got := ProfileFor(TypeMySQL).QuoteIdentifier("we`ird"); got != "`we``ird`" {
		t.Fatalf("QuoteIdentifier = %q", got)
	}
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()
	p := ProfileFor(TypePostgreSQL)
	if got := p.QualifiedName("", "users"); got != `"users"` {
		t.Fatalf("QualifiedName = %q", got)
	}
	if got := p.QualifiedName("public", "users"); got != `"public"."users"` {
		t.Fatalf("QualifiedName = %q", got)
	}
}

// --- Probe Queries ---

func TestProbeQuery(t *testing.T) {
	t.Parallel()
	if got := ProfileFor(TypeOracle).ProbeQuery; got != "SELECT 1 FROM DUAL" {
		t.Fatalf("oracle probe = %q", got)
	}
	if got := ProfileFor(TypePostgreSQL).ProbeQuery; got != "SELECT 1" {
		t.Fatalf("postgresql probe = %q", got)
	}
}

// --- Facts ---

func TestFactRender(t *testing.T) {
	t.Parallel()
	f := AvailableFact("Charset", "UTF8")
	if got := f.Render(); got != "- Charset: UTF8" {
		t.Fatalf("Render = %q", got)
	}
	u := UnavailableFact("Charset", "permission denied")
	if got := u.Render(); got != "- Charset: Unable to retrieve (permission denied)" {
		t.Fatalf("Render = %q", got)
	}
}

// --- Metadata Queries ---

func TestSchemasQuery_SQLiteUnsupported(t *testing.T) {
	t.Parallel()
	if _, err := ProfileFor(TypeSQLite).SchemasQuery(); err != ErrSchemasUnsupported {
		t.Fatalf("expected ErrSchemasUnsupported, got %v", err)
	}
}

func TestColumnsQuery_ArgsMatchPlaceholders(t *testing.T) {
	t.Parallel()
	// Vendors with reusable placeholders bind schema+table; MySQL style
	// repeats the schema argument for its optional-schema predicate.
	q := ProfileFor(TypePostgreSQL).ColumnsQuery("public", "users")
	if len(q.Args) != 2 {
		t.Fatalf("postgresql args = %d, want 2", len(q.Args))
	}
	q = ProfileFor(TypeMySQL).ColumnsQuery("app", "users")
	if len(q.Args) != 3 {
		t.Fatalf("mysql args = %d, want 3", len(q.Args))
	}
	q = ProfileFor(TypeSQLite).ColumnsQuery("", "users")
	if len(q.Args) != 1 {
		t.Fatalf("sqlite args = %d, want 1", len(q.Args))
	}
}

func TestVersionQuery(t *testing.T) {
	t.Parallel()
	if got := ProfileFor(TypePostgreSQL).VersionQuery(); got != "SELECT version()" {
		t.Fatalf("postgresql version query = %q", got)
	}
	if got := ProfileFor(TypeGeneric).VersionQuery(); got != "" {
		t.Fatalf("generic version query = %q, want empty", got)
	}
}

// --- Guidance Text ---

func TestDialectGuidance_MentionsVendorIdioms(t *testing.T) {
	t.Parallel()
	g := ProfileFor(TypeOracle).DialectGuidance()
	if !strings.Contains(g, "ROWNUM") {
		t.Fatalf("oracle guidance missing ROWNUM: %q", g)
	}
	g = ProfileFor(TypeMySQL).DialectGuidance()
	if !strings.Contains(g, "Backtick") {
		t.Fatalf("mysql guidance missing quoting rule: %q", g)
	}
}
