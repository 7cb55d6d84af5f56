package conngate

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeDriver hands out connections whose open and probe behavior is
// controlled per test. Each test registers it under a unique name
// because database/sql driver registration is global.
type fakeDriver struct {
	opens     atomic.Int64
	openErr   error
	queryErr  error
	queryRows bool
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	d.opens.Add(1)
	if d.openErr != nil {
		return nil, d.openErr
	}
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.d.queryErr != nil {
		return nil, c.d.queryErr
	}
	return &fakeRows{hasRow: c.d.queryRows}, nil
}

type fakeRows struct {
	hasRow bool
}

func (r *fakeRows) Columns() []string { return []string{"ok"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if !r.hasRow {
		return io.EOF
	}
	r.hasRow = false
	dest[0] = int64(1)
	return nil
}

func openFake(t *testing.T, name string, d *fakeDriver) *sql.DB {
	t.Helper()
	sql.Register(name, d)
	db, err := sql.Open(name, "fake")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	// Keep every acquisition hitting the driver instead of an idle conn.
	db.SetMaxIdleConns(0)
	return db
}

func testGate(db *sql.DB) *Gate {
	return New(db, Config{
		ProbeQuery:        "SELECT 1",
		ValidationTimeout: time.Second,
		RetryBaseDelay:    time.Millisecond,
	}, zerolog.Nop())
}

func TestAcquire_FirstAttemptSucceeds(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{queryRows: true}
	db := openFake(t, "conngate_success", d)
	g := testGate(db)
	defer g.Close()

	conn, err := g.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	conn.Close()

	if got := d.opens.Load(); got != 1 {
		t.Fatalf("expected exactly 1 open, got %d", got)
	}
}

func TestAcquire_OpenFailsEveryAttempt(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{openErr: errors.New("refused")}
	db := openFake(t, "conngate_openfail", d)
	g := testGate(db)
	defer g.Close()

	_, err := g.Acquire(context.Background())
	if err == nil {
		t.Fatal("expected acquisition failure")
	}
	if err.Error() != "Unable to obtain valid database connection after 3 attempts" {
		t.Fatalf("unexpected error: %q", err.Error())
	}
	if !errors.Is(err, ErrRetryBudgetExhausted) {
		t.Fatalf("expected error to match ErrRetryBudgetExhausted, got %v", err)
	}
	if got := d.opens.Load(); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestAcquire_ProbeFailsEveryAttempt(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{queryErr: errors.New("connection reset")}
	db := openFake(t, "conngate_probefail", d)
	g := testGate(db)
	defer g.Close()

	_, err := g.Acquire(context.Background())
	if err == nil {
		t.Fatal("expected acquisition failure")
	}
	if err.Error() != "Unable to obtain valid database connection after 3 attempts" {
		t.Fatalf("unexpected error: %q", err.Error())
	}
}

func TestAcquire_ProbeReturnsNoRows(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{queryRows: false}
	db := openFake(t, "conngate_norows", d)
	g := testGate(db)
	defer g.Close()

	if _, err := g.Acquire(context.Background()); err == nil {
		t.Fatal("expected acquisition failure when the probe returns no rows")
	}
}

func TestAcquire_CustomAttemptBudget(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{openErr: errors.New("refused")}
	db := openFake(t, "conngate_budget", d)
	g := New(db, Config{
		ProbeQuery:        "SELECT 1",
		ValidationTimeout: time.Second,
		MaxAttempts:       5,
		RetryBaseDelay:    time.Millisecond,
	}, zerolog.Nop())
	defer g.Close()

	_, err := g.Acquire(context.Background())
	if err == nil || err.Error() != "Unable to obtain valid database connection after 5 attempts" {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.opens.Load(); got != 5 {
		t.Fatalf("expected 5 attempts, got %d", got)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{queryRows: true}
	db := openFake(t, "conngate_close", d)
	g := testGate(db)

	if err := g.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if !g.Closed() {
		t.Fatal("expected gate to report closed")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestNew_PanicsOnNilDB(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil db")
		}
	}()
	New(nil, Config{ProbeQuery: "SELECT 1"}, zerolog.Nop())
}

func TestNew_PanicsOnEmptyProbe(t *testing.T) {
	t.Parallel()
	d := &fakeDriver{}
	db := openFake(t, "conngate_panicprobe", d)
	defer db.Close()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty probe query")
		}
	}()
	New(db, Config{}, zerolog.Nop())
}
