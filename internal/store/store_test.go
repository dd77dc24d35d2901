package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakePool struct {
	execSQL []string
	rowErr  error
	rowVals []any
	exists  bool
}

func (f *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &fakeRow{err: f.rowErr, vals: f.rowVals, exists: f.exists}
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type fakeRow struct {
	err    error
	vals   []any
	exists bool
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 1 {
		if b, ok := dest[0].(*bool); ok {
			*b = r.exists
			return nil
		}
	}
	for i, v := range r.vals {
		if i >= len(dest) {
			break
		}
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		}
	}
	return nil
}

func TestGetPlayerMapsNoRows(t *testing.T) {
	s := New(&fakePool{rowErr: pgx.ErrNoRows})

	_, err := s.GetPlayer(context.Background(), "puuid-unknown")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetPlayerByRiotIDMapsNoRows(t *testing.T) {
	s := New(&fakePool{rowErr: pgx.ErrNoRows})

	_, err := s.GetPlayerByRiotID(context.Background(), "Nobody", "EUW")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestInsertMatchIsConflictSafe(t *testing.T) {
	pool := &fakePool{}
	s := New(pool)

	if err := s.InsertMatch(context.Background(), "NA1_1", []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) != 1 || !strings.Contains(pool.execSQL[0], "ON CONFLICT (match_id) DO NOTHING") {
		t.Errorf("sql = %v, want conflict-safe insert", pool.execSQL)
	}
}

func TestMatchExists(t *testing.T) {
	s := New(&fakePool{exists: true})
	ok, err := s.MatchExists(context.Background(), "NA1_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("exists = false, want true")
	}
}

func TestEnsureSchemaCreatesAllTables(t *testing.T) {
	pool := &fakePool{}
	s := New(pool)

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTables := []string{"players", "match_data", "match_timeline", "player_stats", "aggregate_champion_stats"}
	joined := strings.Join(pool.execSQL, "\n")
	for _, table := range wantTables {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}
