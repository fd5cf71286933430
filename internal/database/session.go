// Package database wraps the pgx pool in scoped sessions.
//
// A Session owns one acquired connection and one open transaction. Work is committed or
// rolled back explicitly, or by WithSession when the scope ends, and the connection is
// always released on the way out.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrClosed is returned by every Session method called after Close.
var ErrClosed = errors.New("database: session is closed")

// Row is one result row in column order.
type Row []any

// Filters are column = value equality conditions for Exists. Values are compared as text.
type Filters map[string]any

type Session struct {
	conn   *pgxpool.Conn
	tx     pgx.Tx
	closed bool
}

// Open acquires a connection from the pool and begins a transaction on it.
func Open(ctx context.Context, pool *pgxpool.Pool) (*Session, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Session{conn: conn, tx: tx}, nil
}

// WithSession runs fn inside a fresh session. The session commits when fn returns nil and
// rolls back when fn returns an error or panics. The connection is released in every case.
func WithSession(ctx context.Context, pool *pgxpool.Pool, fn func(s *Session) error) error {
	s, err := Open(ctx, pool)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			s.finish(ctx, false)
			panic(p)
		}
	}()

	if err := fn(s); err != nil {
		s.finish(ctx, false)
		return err
	}

	return s.finish(ctx, true)
}

// IsOpen reports whether the session still holds its connection.
func (s *Session) IsOpen() bool {
	return !s.closed
}

// Query runs a parameterized statement and returns up to limit rows, or every row when
// limit is zero. Statements without a result set return nil rows.
func (s *Session) Query(ctx context.Context, sql string, limit int, args ...any) ([]Row, error) {
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if len(rows.FieldDescriptions()) == 0 {
		rows.Close()
		return nil, rows.Err()
	}

	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result = append(result, Row(values))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Rows runs a query and hands back the cursor for typed scanning.
func (s *Session) Rows(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.tx.Query(ctx, sql, args...)
}

// QueryRow runs a query expected to return at most one row.
func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.closed {
		return errRow{err: ErrClosed}
	}
	return s.tx.QueryRow(ctx, sql, args...)
}

// Exec runs a statement whose result set is not needed.
func (s *Session) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if s.closed {
		return pgconn.CommandTag{}, ErrClosed
	}
	return s.tx.Exec(ctx, sql, args...)
}

// Exists reports whether table holds at least one row matching every filter.
// With no filters it reports whether the table has any rows at all.
func (s *Session) Exists(ctx context.Context, table string, where Filters) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}

	sql, args := existsQuery(table, where)

	var count int64
	if err := s.tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return count > 0, nil
}

// Commit makes the work done so far permanent and starts a new transaction.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return s.restart(ctx)
}

// Rollback discards the work done so far and starts a new transaction.
func (s *Session) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return s.restart(ctx)
}

// Close discards uncommitted work and releases the connection. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	return s.finish(ctx, false)
}

func (s *Session) String() string {
	if s.closed {
		return "Session(closed)"
	}
	cfg := s.conn.Conn().Config()
	return fmt.Sprintf("Session(database=%s, user=%s)", cfg.Database, cfg.User)
}

func (s *Session) restart(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		s.conn.Release()
		s.closed = true
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// finish ends the open transaction and releases the connection. Cleanup must run even
// when the caller's context is already cancelled.
func (s *Session) finish(ctx context.Context, commit bool) error {
	if s.closed {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	var err error
	if commit {
		if err = s.tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	} else if rbErr := s.tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		err = fmt.Errorf("rollback: %w", rbErr)
	}

	s.conn.Release()
	s.closed = true
	return err
}

func existsQuery(table string, where Filters) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(identifier(table))

	columns := make([]string, 0, len(where))
	for col := range where {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(columns))
	for i, col := range columns {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "CAST(%s AS TEXT) = $%d", identifier(col), i+1)
		args = append(args, filterText(where[col]))
	}

	return b.String(), args
}

// identifier quotes a possibly schema-qualified name.
func identifier(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

func filterText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
