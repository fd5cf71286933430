package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoice-backend/internal/database"
	"invoice-backend/internal/database/dbtest"
)

func setupTestData(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool := dbtest.Pool(t)
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS test_data; CREATE TABLE test_data (variable INTEGER)"); err != nil {
		t.Fatalf("failed to create test_data: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DROP TABLE IF EXISTS test_data")
	})
	return pool
}

func selectAll(t *testing.T, pool *pgxpool.Pool) []database.Row {
	t.Helper()

	var rows []database.Row
	err := database.WithSession(context.Background(), pool, func(s *database.Session) error {
		var err error
		rows, err = s.Query(context.Background(), "SELECT variable FROM test_data ORDER BY variable", 0)
		return err
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	return rows
}

func TestSession(t *testing.T) {
	pool := setupTestData(t)
	ctx := context.Background()

	reset := func(t *testing.T) {
		t.Helper()
		if _, err := pool.Exec(ctx, "DELETE FROM test_data"); err != nil {
			t.Fatalf("failed to reset test_data: %v", err)
		}
	}

	t.Run("Commit keeps data for a fresh session", func(t *testing.T) {
		reset(t)
		s, err := database.Open(ctx, pool)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, err := s.Query(ctx, "INSERT INTO test_data (variable) VALUES (1)", 0); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if err := s.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		s.Close(ctx)

		rows := selectAll(t, pool)
		if len(rows) != 1 || rows[0][0] != int32(1) {
			t.Errorf("expected [(1)], got %v", rows)
		}
	})

	t.Run("Rollback discards data", func(t *testing.T) {
		reset(t)
		s, err := database.Open(ctx, pool)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1)")
		if err := s.Rollback(ctx); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}
		s.Close(ctx)

		if rows := selectAll(t, pool); len(rows) != 0 {
			t.Errorf("expected no rows, got %v", rows)
		}
	})

	t.Run("Close releases the session", func(t *testing.T) {
		s, err := database.Open(ctx, pool)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if !s.IsOpen() {
			t.Error("expected new session to be open")
		}
		if err := s.Close(ctx); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if s.IsOpen() {
			t.Error("expected closed session to report not open")
		}
		if _, err := s.Query(ctx, "SELECT * FROM test_data", 0); !errors.Is(err, database.ErrClosed) {
			t.Errorf("expected ErrClosed after Close, got %v", err)
		}
	})

	t.Run("WithSession commits on success", func(t *testing.T) {
		reset(t)
		err := database.WithSession(ctx, pool, func(s *database.Session) error {
			_, err := s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1)")
			return err
		})
		if err != nil {
			t.Fatalf("WithSession failed: %v", err)
		}
		if rows := selectAll(t, pool); len(rows) != 1 {
			t.Errorf("expected 1 row, got %v", rows)
		}
	})

	t.Run("WithSession rolls back on error", func(t *testing.T) {
		reset(t)
		boom := errors.New("boom")
		err := database.WithSession(ctx, pool, func(s *database.Session) error {
			if _, err := s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1)"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if rows := selectAll(t, pool); len(rows) != 0 {
			t.Errorf("expected no rows, got %v", rows)
		}
	})

	t.Run("WithSession rolls back on panic", func(t *testing.T) {
		reset(t)
		func() {
			defer func() { recover() }()
			database.WithSession(ctx, pool, func(s *database.Session) error {
				s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1)")
				panic("boom")
			})
		}()
		if rows := selectAll(t, pool); len(rows) != 0 {
			t.Errorf("expected no rows, got %v", rows)
		}
	})

	t.Run("Query honours limit", func(t *testing.T) {
		reset(t)
		err := database.WithSession(ctx, pool, func(s *database.Session) error {
			if _, err := s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1), (2), (3), (4), (5)"); err != nil {
				return err
			}

			for _, tc := range []struct{ limit, want int }{{1, 1}, {3, 3}, {0, 5}} {
				rows, err := s.Query(ctx, "SELECT variable FROM test_data ORDER BY variable", tc.limit)
				if err != nil {
					return err
				}
				if len(rows) != tc.want {
					t.Errorf("limit %d: expected %d rows, got %d", tc.limit, tc.want, len(rows))
				}
				if len(rows) > 0 && rows[0][0] != int32(1) {
					t.Errorf("limit %d: expected first row 1, got %v", tc.limit, rows[0][0])
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithSession failed: %v", err)
		}
	})

	t.Run("Query without result set returns nil", func(t *testing.T) {
		err := database.WithSession(ctx, pool, func(s *database.Session) error {
			rows, err := s.Query(ctx, "UPDATE test_data SET variable = variable WHERE variable = $1", 0, 99)
			if err != nil {
				return err
			}
			if rows != nil {
				t.Errorf("expected nil rows, got %v", rows)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithSession failed: %v", err)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		reset(t)
		err := database.WithSession(ctx, pool, func(s *database.Session) error {
			empty, err := s.Exists(ctx, "test_data", nil)
			if err != nil {
				return err
			}
			if empty {
				t.Error("expected empty table to report no rows")
			}

			if _, err := s.Exec(ctx, "INSERT INTO test_data (variable) VALUES (1), (2), (3), (4), (5)"); err != nil {
				return err
			}

			checks := []struct {
				where database.Filters
				want  bool
			}{
				{nil, true},
				{database.Filters{"variable": 3}, true},
				{database.Filters{"variable": "3"}, true},
				{database.Filters{"variable": 6}, false},
				{database.Filters{"variable": "3' OR '1'='1"}, false},
			}
			for _, c := range checks {
				got, err := s.Exists(ctx, "test_data", c.where)
				if err != nil {
					return err
				}
				if got != c.want {
					t.Errorf("Exists(%v): got %v, want %v", c.where, got, c.want)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithSession failed: %v", err)
		}
	})
}
