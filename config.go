package dbmcp

// Config is the base configuration used by library mode via New(). All
// fields are read once at construction.
type Config struct {
	Connection ConnectionConfig `json:"connection"`
	Pool       PoolConfig       `json:"pool"`
	Query      QueryConfig      `json:"query"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Server  ServerSettings `json:"server"`
	Logging LoggingConfig  `json:"logging"`
}

// ConnectionConfig identifies the database and driver. URL is the full
// DSN handed to the registered database/sql driver; User is reported in
// the info document (credentials usually travel inside the DSN).
type ConnectionConfig struct {
	URL      string `json:"url"`
	Driver   string `json:"driver"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxConns                 int `json:"max_conns"`
	ConnectionTimeoutMs      int `json:"connection_timeout_ms"`
	IdleTimeoutMs            int `json:"idle_timeout_ms"`
	MaxLifetimeMs            int `json:"max_lifetime_ms"`
	LeakDetectionThresholdMs int `json:"leak_detection_threshold_ms"`
	ValidationTimeoutMs      int `json:"validation_timeout_ms"`
}

// QueryConfig holds query execution settings. SelectOnly activates the
// full SQL validation rule set; comment rejection applies regardless.
type QueryConfig struct {
	TimeoutSeconds int  `json:"timeout_seconds"`
	SelectOnly     bool `json:"select_only"`
}

// ServerSettings holds transport settings for CLI mode. Transport is
// "stdio" or "http".
type ServerSettings struct {
	Transport          string `json:"transport"`
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stderr, stdout, or file path
}
