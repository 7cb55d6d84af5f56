// Package conngate mediates access to the shared connection pool. Every
// acquisition is validated with a vendor probe query and retried on
// transient failure within a fixed attempt budget; callers see a single
// stable error when the budget is exhausted, independent of driver
// wording.
package conngate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrRetryBudgetExhausted is returned (wrapped with the attempt count)
// when no valid connection could be obtained within the attempt budget.
// Match it with errors.Is.
var ErrRetryBudgetExhausted = errors.New("Unable to obtain valid database connection")

// DefaultMaxAttempts is the acquisition retry budget.
const DefaultMaxAttempts = 3

// DefaultRetryBaseDelay is the pause after a failed first attempt; the
// pause grows linearly with the attempt number.
const DefaultRetryBaseDelay = 100 * time.Millisecond

// Config is the gate's own config type.
type Config struct {
	// ProbeQuery is the trivial aliveness query, chosen per vendor.
	ProbeQuery string
	// ValidationTimeout bounds the probe query.
	ValidationTimeout time.Duration
	// MaxAttempts overrides the retry budget. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int
	// RetryBaseDelay overrides the inter-attempt pause. Zero means
	// DefaultRetryBaseDelay.
	RetryBaseDelay time.Duration
}

// Gate acquires validated connections from a pool it does not own,
// except for shutdown: Close releases the pool exactly once.
type Gate struct {
	db     *sql.DB
	config Config
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a Gate over the given pool. Panics on a nil pool or an
// empty probe query.
func New(db *sql.DB, config Config, logger zerolog.Logger) *Gate {
	if db == nil {
		panic("conngate: db must be non-nil")
	}
	if config.ProbeQuery == "" {
		panic("conngate: probe query must be non-empty")
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if config.ValidationTimeout <= 0 {
		config.ValidationTimeout = 5 * time.Second
	}
	return &Gate{db: db, config: config, logger: logger}
}

// Acquire returns a validated connection. The caller owns the
// connection until it calls Close on it, returning it to the pool.
// Acquisition is retried up to the attempt budget on connection-level
// errors and probe failures; once the budget is exhausted the low-level
// error is replaced with a single stable message.
func (g *Gate) Acquire(ctx context.Context) (*sql.Conn, error) {
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		conn, err := g.db.Conn(ctx)
		if err != nil {
			g.logger.Warn().Err(err).Int("attempt", attempt).Msg("connection acquisition failed")
			g.pause(ctx, attempt)
			continue
		}

		if err := g.probe(ctx, conn); err != nil {
			g.logger.Warn().Err(err).Int("attempt", attempt).Msg("connection validation failed")
			conn.Close()
			g.pause(ctx, attempt)
			continue
		}

		return conn, nil
	}

	err := fmt.Errorf("%w after %d attempts", ErrRetryBudgetExhausted, g.config.MaxAttempts)
	g.logger.Error().Int("attempts", g.config.MaxAttempts).Msg("connection retry budget exhausted")
	return nil, err
}

// probe runs the vendor aliveness query under the validation timeout.
func (g *Gate) probe(ctx context.Context, conn *sql.Conn) error {
	probeCtx, cancel := context.WithTimeout(ctx, g.config.ValidationTimeout)
	defer cancel()

	rows, err := conn.QueryContext(probeCtx, g.config.ProbeQuery)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("probe query %q returned no rows", g.config.ProbeQuery)
	}
	return nil
}

// pause sleeps between attempts, growing linearly with the attempt
// number. Returns early if the context is cancelled; the caller's next
// acquisition attempt will then fail fast.
func (g *Gate) pause(ctx context.Context, attempt int) {
	timer := time.NewTimer(g.config.RetryBaseDelay * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Close shuts down the underlying pool exactly once. Calling it again,
// concurrently, or on a gate whose pool is already closed is a no-op.
func (g *Gate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.db == nil {
		return nil
	}
	g.closed = true
	return g.db.Close()
}

// Closed reports whether Close has been called.
func (g *Gate) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
