package dbmcp

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
)

// newTestEngine registers the fake driver under a unique name and
// builds an engine on top of it. The driver name doubles as the test's
// registry key because database/sql driver registration is global.
func newTestEngine(t *testing.T, driverName string, d *fakeDriver, selectOnly bool) *DbMcp {
	t.Helper()
	sql.Register(driverName, d)

	engine, err := New(context.Background(), Config{
		Connection: ConnectionConfig{
			URL:    "fake://test",
			Driver: driverName,
		},
		Pool: PoolConfig{
			MaxConns: 4,
		},
		Query: QueryConfig{
			TimeoutSeconds: 5,
			SelectOnly:     selectOnly,
		},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}
