package logic

import (
	"context"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mockPool serves canned rows keyed by a distinctive substring of the SQL.
type mockPool struct {
	// rows: SQL substring -> rows of scan values
	rows map[string][][]any
	// row: SQL substring -> single row of scan values
	row map[string][]any

	queries  []string
	execSQL  []string
	queryErr error
	execErr  error
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.queries = append(m.queries, sql)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	for k, rows := range m.rows {
		if strings.Contains(sql, k) {
			return &mockRows{data: rows}, nil
		}
	}
	return &mockRows{}, nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.queries = append(m.queries, sql)
	for k, vals := range m.row {
		if strings.Contains(sql, k) {
			return &mockRow{vals: vals}
		}
	}
	return &mockRow{}
}

func (m *mockPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type mockRows struct {
	pgx.Rows
	data [][]any
	idx  int
}

func (m *mockRows) Next() bool {
	m.idx++
	return m.idx <= len(m.data)
}

func (m *mockRows) Scan(dest ...any) error {
	row := m.data[m.idx-1]
	for i := range dest {
		assign(dest[i], row[i])
	}
	return nil
}

func (m *mockRows) Close() {}

func (m *mockRows) Err() error { return nil }

type mockRow struct {
	vals []any
}

func (m *mockRow) Scan(dest ...any) error {
	for i := range dest {
		if i < len(m.vals) {
			assign(dest[i], m.vals[i])
		}
	}
	return nil
}

func assign(dest any, val any) {
	if val == nil {
		return
	}
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.ValueOf(val).Convert(v.Type()))
}
