package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	dbmcp "github.com/openmcp/db-mcp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	// Database drivers registered for the library to open by name.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func runServe() error {
	ctx := context.Background()

	if isTTY(os.Stderr.Fd()) {
		printBanner(os.Stderr, true)
	}

	// 1. Load ServerConfig
	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Resolve connection URL
	if url := os.Getenv("GODBMCP_DB_URL"); url != "" {
		serverConfig.Connection.URL = url
	}
	if serverConfig.Connection.URL == "" {
		return fmt.Errorf("connection.url is not set and GODBMCP_DB_URL is empty")
	}
	if serverConfig.Connection.Password == "" && needsPassword(serverConfig.Connection.URL) && isTTY(os.Stdin.Fd()) {
		serverConfig.Connection.Password = promptPassword("Database password: ")
	}
	serverConfig.Connection.URL = withCredentials(serverConfig.Connection)

	// 3. Setup logger
	logger := setupLogger(serverConfig.Logging)

	// 4. Create DbMcp instance
	db, err := dbmcp.New(ctx, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create DbMcp: %w", err)
	}
	defer db.Close()

	// 5. Test database connection
	logger.Info().Msg("testing database connection")
	if err := db.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database connection test failed")
		return fmt.Errorf("database connection test failed: %w", err)
	}
	logger.Info().Str("database_type", db.DatabaseType()).Msg("database connection test successful")

	// 6. Create MCP server with initialize lifecycle logging
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("godbmcp", "1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithHooks(hooks),
	)

	dbmcp.RegisterMCPTools(mcpServer, db)
	dbmcp.RegisterMCPResources(mcpServer, db)

	// 7. Serve over the configured transport
	if strings.EqualFold(serverConfig.Server.Transport, "stdio") || serverConfig.Server.Transport == "" {
		logger.Info().Msg("starting godbmcp server on stdio")
		return server.ServeStdio(mcpServer)
	}

	if serverConfig.Server.Port <= 0 {
		panic("godbmcp: server.port must be > 0 for the http transport")
	}

	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	mux := http.NewServeMux()

	// Health check endpoint (process liveness only, not DB connectivity)
	if serverConfig.Server.HealthCheckEnabled {
		if serverConfig.Server.HealthCheckPath == "" {
			panic("godbmcp: health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(serverConfig.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Manually register the MCP handler — Start() does NOT register
	// when a custom *http.Server is provided via WithStreamableHTTPServer.
	mux.Handle("/mcp", streamableServer)

	logger.Info().Int("port", serverConfig.Server.Port).Msg("starting godbmcp server")
	return streamableServer.Start(addr)
}

func loadServerConfig() (*dbmcp.ServerConfig, error) {
	configPath := os.Getenv("GODBMCP_CONFIG_PATH")
	if configPath == "" {
		configPath = ".godbmcp/config.json"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config dbmcp.ServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// needsPassword reports whether the URL carries a user but no password.
func needsPassword(url string) bool {
	at := strings.Index(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return false
	}
	userinfo := url[scheme+3 : at]
	return userinfo != "" && !strings.Contains(userinfo, ":")
}

// withCredentials splices configured user and password into the URL
// when the URL itself carries no userinfo.
func withCredentials(conn dbmcp.ConnectionConfig) string {
	url := conn.URL
	scheme := strings.Index(url, "://")
	if scheme < 0 {
		return url
	}
	rest := url[scheme+3:]
	if strings.Contains(strings.SplitN(rest, "/", 2)[0], "@") {
		if conn.Password != "" && needsPassword(url) {
			at := strings.Index(url, "@")
			return url[:at] + ":" + conn.Password + url[at:]
		}
		return url
	}
	if conn.User == "" {
		return url
	}
	userinfo := conn.User
	if conn.Password != "" {
		userinfo += ":" + conn.Password
	}
	return url[:scheme+3] + userinfo + "@" + rest
}

func setupLogger(config dbmcp.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output io.Writer = os.Stderr
	if config.Output == "stdout" {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
