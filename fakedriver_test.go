package dbmcp

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// fakeHandler resolves a query to canned columns and rows, or an error.
type fakeHandler func(query string, args []driver.Value) (columns []string, rows [][]driver.Value, err error)

// fakeDriver is an in-memory database/sql driver used to exercise the
// engine without a live database. The probe query succeeds by default;
// everything else is routed through the handler.
type fakeDriver struct {
	handler      fakeHandler
	execAffected int64
	opens        atomic.Int64

	// rowsFailErr, when set, makes every non-probe result set fail
	// with that error once rowsFailAfter rows have been read.
	rowsFailAfter int
	rowsFailErr   error
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	d.opens.Add(1)
	return &fakeConn{d: d}, nil
}

func (d *fakeDriver) dispatch(query string, args []driver.Value) ([]string, [][]driver.Value, error) {
	if strings.TrimSpace(query) == "SELECT 1" {
		return []string{"ok"}, [][]driver.Value{{int64(1)}}, nil
	}
	if d.handler != nil {
		return d.handler(query, args)
	}
	return nil, nil, fmt.Errorf("unexpected query: %s", query)
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{d: c.d, query: query}, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	columns, rows, err := c.d.dispatch(query, namedToValues(args))
	if err != nil {
		return nil, err
	}
	return c.d.newRows(query, columns, rows), nil
}

func (d *fakeDriver) newRows(query string, columns []string, rows [][]driver.Value) *fakeRows {
	r := &fakeRows{columns: columns, rows: rows}
	if d.rowsFailErr != nil && strings.TrimSpace(query) != "SELECT 1" {
		r.failAfter = d.rowsFailAfter
		r.failErr = d.rowsFailErr
	}
	return r
}

type fakeStmt struct {
	d     *fakeDriver
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	columns, rows, err := s.d.dispatch(s.query, args)
	if err != nil {
		return nil, err
	}
	return s.d.newRows(s.query, columns, rows), nil
}

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	if _, _, err := s.d.dispatch(s.query, args); err != nil {
		return nil, err
	}
	return fakeResult{affected: s.d.execAffected}, nil
}

type fakeResult struct {
	affected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type fakeRows struct {
	columns   []string
	rows      [][]driver.Value
	pos       int
	failAfter int
	failErr   error
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.failErr != nil && r.pos >= r.failAfter {
		return r.failErr
	}
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func namedToValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a.Value
	}
	return out
}
