// Package dbmcp provides guarded, vendor-neutral SQL access for AI
// agents through the Model Context Protocol (MCP).
//
// It exposes two tools — run_sql and describe_table — plus a catalog of
// database:// resources (server information, a data dictionary, and
// per-table and per-schema documents) computed from live metadata.
//
// Every call borrows a validated connection from a shared pool: each
// acquisition is probed with a trivial query and retried up to three
// times before failing. Statement text passes through a safety guard
// that always rejects SQL comments and, in select-only mode, rejects
// empty input, multiple statements, and mutating leading keywords.
//
// Vendor differences (identifier case folding, quoting, pagination
// idioms, metadata queries) are captured in a dialect profile selected
// once from the driver name and connection URL. PostgreSQL, MySQL,
// SQLite, SQL Server, Oracle, and H2 have dedicated profiles; anything
// else falls back to an information_schema-based generic profile.
//
// # Library Usage
//
//	d, err := dbmcp.New(ctx, dbmcp.Config{
//		Connection: dbmcp.ConnectionConfig{
//			Driver: "pgx",
//			URL:    "postgres://app@localhost/app",
//		},
//		Pool:  dbmcp.PoolConfig{MaxConns: 10},
//		Query: dbmcp.QueryConfig{TimeoutSeconds: 30, SelectOnly: true},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer d.Close()
//
//	// Use directly
//	result, err := d.ExecuteSql(ctx, "SELECT * FROM users WHERE id = $1", 100, []any{42})
//
//	// Or register on an MCP server
//	dbmcp.RegisterMCPTools(mcpServer, d)
//	dbmcp.RegisterMCPResources(mcpServer, d)
//
// The caller is responsible for registering a database/sql driver under
// the configured driver name; the cmd/godbmcp binary registers pgx,
// mysql, and sqlite.
package dbmcp
