package sqltable_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/cts2-mapentry/source/sqltable"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqltable.Open(t.Context(), sqltable.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE cui_to_snomed (cui TEXT, code TEXT)`,
		`INSERT INTO cui_to_snomed (cui, code) VALUES
			('C0001', 'S200'),
			('C0001', 'S100'),
			('C0001', 'S200'),
			(' C0002 ', ' S300 '),
			('C0003', NULL),
			('', 'S400')`,
	} {
		if _, err := db.ExecContext(t.Context(), stmt); err != nil {
			t.Fatalf("apply ddl: %v", err)
		}
	}
	return db
}

func TestSource(t *testing.T) {
	t.Parallel()

	db := openMemoryDB(t)

	for _, tt := range []struct {
		name  string
		query string
		want  map[string][]string
	}{
		{
			name: "default query",
			want: map[string][]string{
				"C0001": {"S100", "S200"},
				"C0002": {"S300"},
			},
		},
		{
			name:  "custom query",
			query: `SELECT cui, code FROM cui_to_snomed WHERE cui = 'C0001'`,
			want:  map[string][]string{"C0001": {"S100", "S200"}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqltable.New(db, tt.query).GetAll(t.Context())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetAll() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("query error", func(t *testing.T) {
		if _, err := sqltable.New(db, "SELECT cui, code FROM missing_table").GetAll(t.Context()); err == nil {
			t.Error("expected error for missing table")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := sqltable.New(db, "").GetAll(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("GetAll() error = %v, want %v", err, context.Canceled)
		}
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := sqltable.Open(t.Context(), "mysql", "dsn"); !errors.Is(err, sqltable.ErrUnknownDriver) {
		t.Errorf("Open() error = %v, want %v", err, sqltable.ErrUnknownDriver)
	}
}
