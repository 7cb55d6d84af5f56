package dbmcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the run_sql and describe_table tools on
// the given MCP server.
func RegisterMCPTools(mcpServer *server.MCPServer, dbMcp *DbMcp) {
	runSQLTool := mcp.NewTool("run_sql",
		mcp.WithDescription("Execute a SQL statement against the connected database. Returns results as JSON. Positional parameters are bound to ? placeholders (or the vendor's native placeholder style)."),
		mcp.WithString("sql",
			mcp.Required(),
			mcp.Description("The SQL statement to execute"),
		),
		mcp.WithNumber("max_rows",
			mcp.Description("Maximum number of rows to return; 0 or omitted means no cap"),
		),
		mcp.WithArray("params",
			mcp.Description("Positional parameter values bound in order"),
		),
	)

	mcpServer.AddTool(runSQLTool, dbMcp.loggedToolHandler("run_sql", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sqlText, err := req.RequireString("sql")
		if err != nil {
			return mcp.NewToolResultError("sql parameter is required"), nil
		}
		maxRows := req.GetInt("max_rows", 0)
		var params []any
		if raw, ok := req.GetArguments()["params"]; ok {
			if list, ok := raw.([]any); ok {
				params = list
			}
		}

		result, err := dbMcp.ExecuteSql(ctx, sqlText, maxRows, params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jsonBytes, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError("failed to marshal query result"), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}))

	describeTableTool := mcp.NewTool("describe_table",
		mcp.WithDescription("Describe the schema of a table including columns, primary keys, foreign keys, and indexes."),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("The table name to describe"),
		),
		mcp.WithString("schema",
			mcp.Description("The schema name (optional; any schema when omitted)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(describeTableTool, dbMcp.loggedToolHandler("describe_table", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table")
		if err != nil {
			return mcp.NewToolResultError("table parameter is required"), nil
		}
		schema := req.GetString("schema", "")

		described, err := dbMcp.DescribeTable(ctx, table, schema)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(described), nil
	}))
}

// RegisterMCPResources registers the database:// resources: the static
// info and data-dictionary documents plus per-table and per-schema
// resource templates.
func RegisterMCPResources(mcpServer *server.MCPServer, dbMcp *DbMcp) {
	infoResource := mcp.NewResource(ResourceInfoURI, "Database Information",
		mcp.WithResourceDescription("Server, driver, and SQL dialect details for the connected database"),
		mcp.WithMIMEType("text/plain"),
	)
	mcpServer.AddResource(infoResource, dbMcp.resourceHandler)

	dictResource := mcp.NewResource(ResourceDataDictionaryURI, "Data Dictionary",
		mcp.WithResourceDescription("Overview of every table and view with query-pattern guidance"),
		mcp.WithMIMEType("text/plain"),
	)
	mcpServer.AddResource(dictResource, dbMcp.resourceHandler)

	tableTemplate := mcp.NewResourceTemplate(resourceTablePrefix+"{table}", "Table Description",
		mcp.WithTemplateDescription("Columns, keys, and indexes of one table"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
	mcpServer.AddResourceTemplate(tableTemplate, dbMcp.resourceHandler)

	schemaTemplate := mcp.NewResourceTemplate(resourceSchemaPrefix+"{schema}", "Schema Contents",
		mcp.WithTemplateDescription("Tables under one schema"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
	mcpServer.AddResourceTemplate(schemaTemplate, dbMcp.resourceHandler)
}

// resourceHandler serves every database:// URI through ReadResource.
func (d *DbMcp) resourceHandler(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	resource, err := d.ReadResource(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fmt.Errorf("%w: %s", server.ErrResourceNotFound, req.Params.URI)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      resource.URI,
			MIMEType: resource.MIMEType,
			Text:     resource.Content,
		},
	}, nil
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (d *DbMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		d.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
