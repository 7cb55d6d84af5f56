package dbmcp

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/openmcp/db-mcp/internal/conngate"
	"github.com/openmcp/db-mcp/internal/dialect"
	"github.com/openmcp/db-mcp/internal/sqlguard"
)

// DbMcp is the core engine providing guarded SQL execution and the
// database:// resource catalog. All exported methods are safe for
// concurrent use from multiple goroutines; each call borrows its own
// connection from the shared pool and releases it on every exit path.
type DbMcp struct {
	config  Config
	db      *sql.DB
	profile *dialect.Profile
	gate    *conngate.Gate
	guard   *sqlguard.Validator
	logger  zerolog.Logger
}

// New creates a DbMcp instance. The vendor profile is selected once
// from the configured driver and URL. Panics on invalid config. Returns
// an error only for runtime failures (pool initialization, first ping).
func New(ctx context.Context, config Config, logger zerolog.Logger) (*DbMcp, error) {
	// --- Config validation (panics on invalid config) ---

	if config.Connection.URL == "" {
		panic("dbmcp: connection.url must be non-empty")
	}
	if config.Connection.Driver == "" {
		panic("dbmcp: connection.driver must be non-empty")
	}
	if config.Pool.MaxConns <= 0 {
		panic("dbmcp: pool.max_conns must be > 0")
	}
	if config.Query.TimeoutSeconds <= 0 {
		panic("dbmcp: query.timeout_seconds must be > 0")
	}

	// Apply defaults for zero values
	if config.Pool.ConnectionTimeoutMs == 0 {
		config.Pool.ConnectionTimeoutMs = 10000
	}
	if config.Pool.ValidationTimeoutMs == 0 {
		config.Pool.ValidationTimeoutMs = 5000
	}

	profile := dialect.ProfileFor(dialect.DetectType(config.Connection.Driver, config.Connection.URL))

	// --- Open and tune the pool ---

	db, err := sql.Open(config.Connection.Driver, config.Connection.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	db.SetMaxOpenConns(config.Pool.MaxConns)
	db.SetMaxIdleConns(max(1, config.Pool.MaxConns/4))
	if config.Pool.IdleTimeoutMs > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.Pool.IdleTimeoutMs) * time.Millisecond)
	}
	if config.Pool.MaxLifetimeMs > 0 {
		db.SetConnMaxLifetime(time.Duration(config.Pool.MaxLifetimeMs) * time.Millisecond)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Pool.ConnectionTimeoutMs)*time.Millisecond)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize connection pool: %w", err)
	}

	gate := conngate.New(db, conngate.Config{
		ProbeQuery:        profile.ProbeQuery,
		ValidationTimeout: time.Duration(config.Pool.ValidationTimeoutMs) * time.Millisecond,
	}, logger)

	logger.Info().
		Str("database_type", string(profile.Type)).
		Str("driver", config.Connection.Driver).
		Int("max_conns", config.Pool.MaxConns).
		Msg("connection pool initialized")

	return &DbMcp{
		config:  config,
		db:      db,
		profile: profile,
		gate:    gate,
		guard:   sqlguard.NewValidator(),
		logger:  logger,
	}, nil
}

// Close shuts down the connection pool. Idempotent: repeated calls, and
// calls racing from multiple goroutines, close the pool exactly once.
func (d *DbMcp) Close() error {
	return d.gate.Close()
}

// Ping verifies database connectivity.
func (d *DbMcp) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// DatabaseType returns the normalized vendor tag the engine detected.
func (d *DbMcp) DatabaseType() string {
	return string(d.profile.Type)
}

// releaseConn returns a borrowed connection to the pool and logs a
// warning when the call held it past the leak-detection threshold.
func (d *DbMcp) releaseConn(conn *sql.Conn, acquiredAt time.Time) {
	conn.Close()
	threshold := time.Duration(d.config.Pool.LeakDetectionThresholdMs) * time.Millisecond
	if threshold > 0 {
		if held := time.Since(acquiredAt); held > threshold {
			d.logger.Warn().
				Dur("held", held).
				Dur("threshold", threshold).
				Msg("connection held past leak detection threshold")
		}
	}
}

// queryMeta runs a vendor metadata query on a borrowed connection and
// materializes every row. Used by the catalog and describe paths, which
// read small bounded metadata sets.
func (d *DbMcp) queryMeta(ctx context.Context, conn *sql.Conn, q dialect.Query) ([][]any, error) {
	rows, err := conn.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]any
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]any, len(columns))
		for i, v := range values {
			row[i] = cellValue(v)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// queryScalar runs a single-value query and returns the first column of
// the first row rendered as text.
func (d *DbMcp) queryScalar(ctx context.Context, conn *sql.Conn, query string) (string, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("query returned no rows")
	}
	var v any
	if err := rows.Scan(&v); err != nil {
		return "", err
	}
	return metaString(v), nil
}

// metaString renders a metadata cell as text. NULL becomes the empty
// string.
func metaString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// metaInt renders a metadata cell as an integer, defaulting to zero.
func metaInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		var n int64
		fmt.Sscanf(string(x), "%d", &n)
		return n
	case string:
		var n int64
		fmt.Sscanf(x, "%d", &n)
		return n
	default:
		return 0
	}
}

var (
	dsnURLPasswordRe   = regexp.MustCompile(`(://[^:/@]+:)[^@]+@`)
	dsnParamPasswordRe = regexp.MustCompile(`(?i)(password=)[^\s;&]+`)
)

// maskDSN hides credential material embedded in a connection URL before
// it is rendered into a resource document.
func maskDSN(dsn string) string {
	masked := dsnURLPasswordRe.ReplaceAllString(dsn, "${1}*****@")
	return dsnParamPasswordRe.ReplaceAllString(masked, "${1}*****")
}
